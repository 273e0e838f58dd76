package monitor

import (
	"context"
	"runtime"

	"cpuwatch/config"
	"cpuwatch/model"
	"cpuwatch/proc"

	"github.com/pkg/errors"
)

// Provider enumerates live processes.
//
// Providers are stateful: CPUPercent on each record is the utilisation
// since the previous call for the same pid, expressed as CPU time over wall
// time times 100 without dividing by the core count (0 .. 100*NumCPU).
// A pid seen for the first time reports 0.
//
// Enumeration is best effort. A process that exits mid-scan or whose
// attributes cannot be read is left out; only failing to enumerate at all
// is an error. The idle pseudo-process is never returned.
type Provider interface {
	ListProcesses(ctx context.Context) ([]model.ProcessRecord, error)
}

// NewProvider picks a provider for a config process_source value.
func NewProvider(source string) (Provider, error) {
	switch source {
	case config.SourceProcFS:
		return NewCollector(proc.DefaultRoot), nil
	case config.SourcePsutil:
		return NewPsutilCollector(), nil
	case config.SourceAuto, "":
		if runtime.GOOS == "linux" {
			return NewCollector(proc.DefaultRoot), nil
		}
		return NewPsutilCollector(), nil
	}
	return nil, errors.Errorf("unknown process source %q", source)
}
