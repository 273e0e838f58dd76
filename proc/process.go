package proc

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultRoot is where procfs is mounted on Linux.
const DefaultRoot = "/proc"

// Stat holds the fields of /proc/<pid>/stat the collector needs.
type Stat struct {
	Comm     string
	State    byte
	UTime    uint64
	STime    uint64
	RSSPages int64

	// StartTime is in clock ticks since boot; a reused pid gets a new one.
	StartTime uint64
}

// CPUTicks is utime+stime in clock ticks.
func (s Stat) CPUTicks() uint64 {
	return s.UTime + s.STime
}

func pidPath(root string, pid int, name string) string {
	return filepath.Join(root, strconv.Itoa(pid), name)
}

func ReadProcStat(root string, pid int) (Stat, error) {
	data, err := os.ReadFile(pidPath(root, pid, "stat"))
	if err != nil {
		return Stat{}, err
	}
	line := strings.TrimSpace(string(data))

	// comm may itself contain spaces and parens
	l := strings.IndexByte(line, '(')
	r := strings.LastIndexByte(line, ')')
	if l < 0 || r < 0 || r <= l {
		return Stat{}, errors.Errorf("malformed stat for pid %d", pid)
	}

	fields := strings.Fields(line[r+1:])
	if len(fields) < 22 {
		return Stat{}, errors.Errorf("short stat for pid %d: %d fields", pid, len(fields))
	}
	// fields[0] is field 3 of proc(5)
	field := func(i int) string { return fields[i-3] }

	st := Stat{Comm: line[l+1 : r], State: field(3)[0]}
	if st.UTime, err = strconv.ParseUint(field(14), 10, 64); err != nil {
		return Stat{}, errors.Wrapf(err, "utime for pid %d", pid)
	}
	if st.STime, err = strconv.ParseUint(field(15), 10, 64); err != nil {
		return Stat{}, errors.Wrapf(err, "stime for pid %d", pid)
	}
	if st.StartTime, err = strconv.ParseUint(field(22), 10, 64); err != nil {
		return Stat{}, errors.Wrapf(err, "starttime for pid %d", pid)
	}
	st.RSSPages, _ = strconv.ParseInt(field(24), 10, 64)
	return st, nil
}

func ReadStatusUID(root string, pid int) (uint32, error) {
	f, err := os.Open(pidPath(root, pid, "status"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		// real uid, as ps and psutil report it
		v, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "uid for pid %d", pid)
		}
		return uint32(v), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, errors.Errorf("no Uid line for pid %d", pid)
}

func UIDToName(uid uint32) string {
	id := strconv.FormatUint(uint64(uid), 10)
	u, err := user.LookupId(id)
	if err != nil || u.Username == "" {
		return id
	}
	return u.Username
}

// ReadExe resolves the executable link. Other users' processes usually
// fail with a permission error.
func ReadExe(root string, pid int) (string, error) {
	exe, err := os.Readlink(pidPath(root, pid, "exe"))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(exe, " (deleted)"), nil
}

func ReadCmdline(root string, pid int) []string {
	data, err := os.ReadFile(pidPath(root, pid, "cmdline"))
	if err != nil || len(data) == 0 {
		return nil
	}
	return strings.FieldsFunc(string(data), func(r rune) bool { return r == 0 })
}

// ProcessName returns comm, extended from the command line when the kernel
// truncated it to 15 bytes.
func ProcessName(root string, pid int, comm string) string {
	if len(comm) < 15 {
		return comm
	}
	args := ReadCmdline(root, pid)
	if len(args) == 0 {
		return comm
	}
	base := filepath.Base(args[0])
	if strings.HasPrefix(base, comm) {
		return base
	}
	return comm
}

var statusNames = map[byte]string{
	'R': "running",
	'S': "sleeping",
	'D': "disk-sleep",
	'Z': "zombie",
	'T': "stopped",
	't': "tracing-stop",
	'X': "dead",
	'x': "dead",
	'I': "idle",
	'K': "wake-kill",
	'W': "waking",
	'P': "parked",
}

// StatusName maps a stat state letter to its long name.
func StatusName(state byte) string {
	if s, ok := statusNames[state]; ok {
		return s
	}
	return "unknown"
}
