package proc

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func ReadMemTotalKB(root string) (int64, error) {
	f, err := os.Open(filepath.Join(root, "meminfo"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		for _, tok := range strings.Fields(line)[1:] {
			if v, err := strconv.ParseInt(tok, 10, 64); err == nil && v > 0 {
				return v, nil
			}
		}
		break
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, errors.New("MemTotal not found in meminfo")
}

// PageSizeKB is the size of one RSS page in KiB.
func PageSizeKB() int64 {
	return int64(os.Getpagesize() / 1024)
}
