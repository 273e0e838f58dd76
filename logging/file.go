package logging

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const fileLayout = "2006-01-02.txt"

// FileName is the log file used for runs started at now.
func FileName(now time.Time) string {
	return now.Format(fileLayout)
}

// RunFile is the daily log file of one run. Several runs on the same day
// append to the same file.
type RunFile struct {
	*os.File
	Path string
}

func OpenDaily(dir string, now time.Time) (*RunFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create log dir %s", dir)
	}
	path := filepath.Join(dir, FileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	return &RunFile{File: f, Path: path}, nil
}

// Close appends the blank line that separates runs, then closes the file.
func (f *RunFile) Close() error {
	_, werr := f.File.WriteString("\n")
	if err := f.File.Close(); err != nil {
		return err
	}
	return werr
}

// Prune deletes daily files in dir more than retentionDays whole days older
// than now. Files whose name is not a date are left alone.
func Prune(dir string, retentionDays int, now time.Time, logger *Logger) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read log dir %s", dir)
	}

	var removed []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		day, err := time.ParseInLocation(fileLayout, ent.Name(), now.Location())
		if err != nil {
			logger.Warnf("Skipping unexpected file in log dir: %s", path)
			continue
		}
		age := int(now.Sub(day).Hours() / 24)
		if age <= retentionDays {
			continue
		}
		logger.Infof("Deleting old log file: %s", path)
		if err := os.Remove(path); err != nil {
			logger.Errorf("Could not delete %s: %v", path, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, nil
}
