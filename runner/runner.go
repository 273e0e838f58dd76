// Package runner sequences one sampling run: sample, filter, format,
// deliver.
package runner

import (
	"context"
	"fmt"
	"io"

	"cpuwatch/alert"
	"cpuwatch/config"
	"cpuwatch/logging"
	"cpuwatch/model"
	"cpuwatch/monitor"
	"cpuwatch/report"
	"cpuwatch/ui"

	"github.com/pkg/errors"
)

// Outcome is how a run ended.
type Outcome int

const (
	NothingToReport Outcome = iota
	Reported
	PanicHandled
)

func (o Outcome) String() string {
	switch o {
	case NothingToReport:
		return "nothing to report"
	case Reported:
		return "reported"
	case PanicHandled:
		return "panic handled"
	}
	return "unknown"
}

// Result describes a finished run. Report and Delivery stay nil when there
// was nothing to report.
type Result struct {
	Outcome  Outcome
	Report   *report.Report
	Delivery *alert.Result
}

type Runner struct {
	Config     *config.Config
	Sampler    *monitor.Sampler
	Controller *alert.Controller
	Logger     *logging.Logger

	// Preview, when set, receives a human readable copy of the report
	// before delivery.
	Preview io.Writer
}

// New wires a runner for cfg. In dry-run both sinks are simulated and the
// report is previewed on preview.
func New(cfg *config.Config, p monitor.Provider, dryRun bool, preview io.Writer, logger *logging.Logger) *Runner {
	var reportSink, panicSink alert.Sink
	if dryRun {
		reportSink = alert.DryRunSink{Logger: logger}
		panicSink = alert.DryRunSink{Logger: logger}
	} else {
		reportSink = alert.NewWebhookSink(cfg.WebhookURL)
		panicSink = alert.NewWebhookSink(cfg.PanicURL)
		preview = nil
	}
	return &Runner{
		Config:  cfg,
		Sampler: monitor.NewSampler(p, logger),
		Controller: &alert.Controller{
			Report:   reportSink,
			Panic:    panicSink,
			Username: cfg.WebhookName,
			Logger:   logger,
		},
		Logger:  logger,
		Preview: preview,
	}
}

func (r *Runner) Run(ctx context.Context) (Result, error) {
	records, err := r.Sampler.Sample(ctx, r.Config.Delay())
	if err != nil {
		return Result{}, errors.Wrap(err, "sample processes")
	}

	heavy := monitor.Filter(records, r.Config.CPUThreshold)
	r.Logger.Infof("Found %d heavy processes", len(heavy))
	if len(heavy) == 0 {
		r.Logger.Infof("No heavy processes found, exiting...")
		return Result{Outcome: NothingToReport}, nil
	}

	r.Logger.Warnf("Heavy processes found!")
	r.Logger.Warnf("List of heavy processes:")
	for _, p := range heavy {
		r.Logger.Warnf("%s", describe(p))
	}

	rep := report.New(heavy)
	if r.Preview != nil {
		if err := ui.Preview(r.Preview, rep, r.Config.CPUThreshold, r.Config.WebhookName); err != nil {
			r.Logger.Warnf("Could not print preview: %v", err)
		}
	}

	r.Logger.Infof("Sending message to Discord, URL: %s", r.Config.WebhookURL)
	res := r.Controller.Deliver(ctx, rep.Body)

	out := Result{Outcome: Reported, Report: &rep, Delivery: &res}
	if res.State == alert.StatePanic {
		out.Outcome = PanicHandled
	}
	return out, nil
}

func describe(p model.ProcessRecord) string {
	opt := func(s *string) string {
		if s == nil {
			return report.Missing
		}
		return *s
	}
	return fmt.Sprintf("pid=%d name=%q exe=%s cpu_percent=%s memory_percent=%s status=%s username=%s",
		p.PID, p.Name, opt(p.Exe), report.CPU(p.CPUPercent), report.Number(p.MemoryPercent), p.Status, opt(p.Username))
}
