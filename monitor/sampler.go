package monitor

import (
	"context"
	"time"

	"cpuwatch/logging"
	"cpuwatch/model"

	"github.com/pkg/errors"
)

// Sampler takes the two passes a CPU percentage needs: the first pass
// primes each process's accounting window and is thrown away, the second
// pass, delay later, reports utilisation over that window.
type Sampler struct {
	Provider Provider
	Logger   *logging.Logger

	// Sleep blocks for the inter-pass delay. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

func NewSampler(p Provider, logger *logging.Logger) *Sampler {
	return &Sampler{Provider: p, Logger: logger, Sleep: time.Sleep}
}

// Sample returns the second pass, restricted to pids that were also
// present in the first. The delay is not interruptible: the whole process
// is the unit of cancellation.
func (s *Sampler) Sample(ctx context.Context, delay time.Duration) ([]model.ProcessRecord, error) {
	if delay < 0 {
		return nil, errors.Errorf("negative sampling delay %v", delay)
	}

	s.Logger.Infof("First CPU usage check")
	primed, err := s.Provider.ListProcesses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "priming pass")
	}
	seen := make(map[int32]struct{}, len(primed))
	for _, r := range primed {
		seen[r.PID] = struct{}{}
	}

	s.Logger.Infof("Sleeping for %v", delay)
	sleep := s.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(delay)

	s.Logger.Infof("Getting processes")
	second, err := s.Provider.ListProcesses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "sampling pass")
	}

	out := make([]model.ProcessRecord, 0, len(second))
	for _, r := range second {
		if _, ok := seen[r.PID]; !ok || model.IsIdleSentinel(r) {
			continue
		}
		out = append(out, r)
	}
	s.Logger.Infof("Got %d processes", len(out))
	return out, nil
}
