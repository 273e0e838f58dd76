package monitor

import (
	"context"
	"runtime"

	"cpuwatch/model"
	"cpuwatch/proc"

	"github.com/pkg/errors"
)

// Collector reads processes straight from procfs.
type Collector struct {
	Root string

	pageKB    int64
	primed    bool
	prevTotal uint64
	prev      map[int]sample
}

// sample is what one pass remembers about a pid.
type sample struct {
	ticks uint64
	start uint64
}

func NewCollector(root string) *Collector {
	return &Collector{
		Root:      root,
		pageKB:    proc.PageSizeKB(),
		prev:      make(map[int]sample),
	}
}

func (c *Collector) ListProcesses(ctx context.Context) ([]model.ProcessRecord, error) {
	pids, err := proc.ListPIDs(c.Root)
	if err != nil {
		return nil, errors.Wrap(err, "list processes")
	}
	cpu, err := proc.ReadCPUTimes(c.Root)
	if err != nil {
		return nil, errors.Wrap(err, "read cpu times")
	}
	memTotalKB, err := proc.ReadMemTotalKB(c.Root)
	if err != nil {
		memTotalKB = 0
	}

	ncpu := cpu.NCPU
	if ncpu <= 0 {
		ncpu = runtime.NumCPU()
	}
	// elapsed wall time in ticks, as seen by one core
	var wallTicks float64
	if c.primed && cpu.Total > c.prevTotal {
		wallTicks = float64(cpu.Total-c.prevTotal) / float64(ncpu)
	}

	records := make([]model.ProcessRecord, 0, len(pids))
	seen := make(map[int]sample, len(pids))
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st, err := proc.ReadProcStat(c.Root, pid)
		if err != nil {
			// exited since ListPIDs
			continue
		}
		cur := st.CPUTicks()
		seen[pid] = sample{ticks: cur, start: st.StartTime}

		rec := model.ProcessRecord{
			PID:    int32(pid),
			Name:   proc.ProcessName(c.Root, pid, st.Comm),
			Status: proc.StatusName(st.State),
		}
		// a changed start time means the pid was reused by a new process
		if prev, ok := c.prev[pid]; ok && prev.start == st.StartTime && wallTicks > 0 && cur >= prev.ticks {
			rec.CPUPercent = float64(cur-prev.ticks) * 100.0 / wallTicks
		}
		if memTotalKB > 0 {
			rec.MemoryPercent = float64(st.RSSPages*c.pageKB) * 100.0 / float64(memTotalKB)
		}
		if exe, err := proc.ReadExe(c.Root, pid); err == nil {
			rec.Exe = model.StringPtr(exe)
		}
		if uid, err := proc.ReadStatusUID(c.Root, pid); err == nil {
			name := proc.UIDToName(uid)
			rec.Username = &name
		}
		if model.IsIdleSentinel(rec) {
			continue
		}
		records = append(records, rec)
	}

	c.prev = seen
	c.prevTotal = cpu.Total
	c.primed = true
	return records, nil
}
