package monitor

import (
	"context"
	"strings"

	"cpuwatch/model"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
)

type cachedProcess struct {
	p       *process.Process
	created int64
}

// PsutilCollector enumerates processes through gopsutil and works on every
// platform gopsutil supports. It keeps the *process.Process handles between
// calls, since gopsutil measures Percent(0) against the previous call on the
// same handle.
type PsutilCollector struct {
	cache map[int32]cachedProcess
}

func NewPsutilCollector() *PsutilCollector {
	return &PsutilCollector{cache: make(map[int32]cachedProcess)}
}

func (c *PsutilCollector) ListProcesses(ctx context.Context) ([]model.ProcessRecord, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list processes")
	}

	next := make(map[int32]cachedProcess, len(procs))
	records := make([]model.ProcessRecord, 0, len(procs))
	for _, p := range procs {
		created, err := p.CreateTimeWithContext(ctx)
		if err != nil {
			created = 0
		}
		// a changed create time means the pid was recycled
		if old, ok := c.cache[p.Pid]; ok && old.created == created {
			p = old.p
		}
		next[p.Pid] = cachedProcess{p: p, created: created}

		rec, ok := snapshot(ctx, p)
		if !ok || model.IsIdleSentinel(rec) {
			continue
		}
		records = append(records, rec)
	}
	c.cache = next
	return records, nil
}

func snapshot(ctx context.Context, p *process.Process) (model.ProcessRecord, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return model.ProcessRecord{}, false
	}
	cpu, err := p.PercentWithContext(ctx, 0)
	if err != nil {
		return model.ProcessRecord{}, false
	}

	rec := model.ProcessRecord{
		PID:        p.Pid,
		Name:       name,
		CPUPercent: cpu,
	}
	if mem, err := p.MemoryPercentWithContext(ctx); err == nil {
		rec.MemoryPercent = float64(mem)
	}
	if exe, err := p.ExeWithContext(ctx); err == nil {
		rec.Exe = model.StringPtr(exe)
	}
	if user, err := p.UsernameWithContext(ctx); err == nil && user != "" {
		rec.Username = &user
	}
	if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
		rec.Status = strings.Join(status, ",")
	} else {
		rec.Status = "unknown"
	}
	return rec, true
}
