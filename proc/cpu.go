package proc

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CPUTimes is the aggregate line of /proc/stat plus the number of
// per-core lines that follow it. Total covers user through steal; guest and
// guest_nice are already counted in user and nice.
type CPUTimes struct {
	Total uint64
	NCPU  int
}

func ReadCPUTimes(root string) (CPUTimes, error) {
	f, err := os.Open(filepath.Join(root, "stat"))
	if err != nil {
		return CPUTimes{}, err
	}
	defer f.Close()

	var ct CPUTimes
	seenTotal := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "cpu") {
			continue
		}
		if fields[0] != "cpu" {
			ct.NCPU++
			continue
		}
		seenTotal = true
		vals := fields[1:]
		if len(vals) > 8 {
			vals = vals[:8]
		}
		for _, tok := range vals {
			v, err := strconv.ParseUint(tok, 10, 64)
			if err == nil {
				ct.Total += v
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return CPUTimes{}, err
	}
	if !seenTotal {
		return CPUTimes{}, errors.New("no aggregate cpu line in stat")
	}
	return ct, nil
}
