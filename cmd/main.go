package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cpuwatch/config"
	"cpuwatch/logging"
	"cpuwatch/monitor"
	"cpuwatch/runner"
)

const logDir = "logs"

type app struct {
	cfgPath string
	logDir  string
	console bool
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time

	newProvider func(source string) (monitor.Provider, error)
	sleep       func(time.Duration)
}

func main() {
	a := &app{
		cfgPath:     config.DefaultPath,
		logDir:      logDir,
		console:     os.Getenv("CPUWATCH_LOG_CONSOLE") != "",
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		now:         time.Now,
		newProvider: monitor.NewProvider,
	}
	os.Exit(a.run(os.Args[1:]))
}

// run performs one invocation and returns the exit status. Both the
// nothing-to-report and the panic-handled endings exit 0; only a broken
// setup exits 1.
func (a *app) run(args []string) int {
	var logger *logging.Logger
	if a.console {
		logger = logging.New(a.stderr, true)
	} else {
		f, err := logging.OpenDaily(a.logDir, a.now())
		if err != nil {
			fmt.Fprintln(a.stderr, "cpuwatch:", err)
			return 1
		}
		defer f.Close()
		logger = logging.New(f, false)
	}

	dryRun := false
	if len(args) > 0 {
		if args[0] == "--test" {
			dryRun = true
		} else {
			logger.Errorf("Unknown argument: %s", args[0])
		}
	}

	if dryRun {
		logger.Infof("Startup *Test mode*")
	} else {
		logger.Infof("Startup...")
	}
	if a.console {
		logger.Infof("Logging to console")
	} else {
		logger.Infof("Logging to file")
	}

	logger.Infof("Reading config")
	cfg, created, err := config.Load(a.cfgPath)
	if err != nil {
		logger.Errorf("Could not load config: %v", err)
		return 1
	}
	if created {
		logger.Errorf("Config file does not exist, created a new one at %s", a.cfgPath)
	}

	if !a.console {
		logger.Infof("Deleting log files older than %d days", cfg.LogFileRetentionDays)
		if _, err := logging.Prune(a.logDir, cfg.LogFileRetentionDays, a.now(), logger); err != nil {
			logger.Errorf("Could not prune logs: %v", err)
		}
	}

	provider, err := a.newProvider(cfg.ProcessSource)
	if err != nil {
		logger.Errorf("Could not create process provider: %v", err)
		return 1
	}

	r := runner.New(cfg, provider, dryRun, a.stdout, logger)
	if a.sleep != nil {
		r.Sampler.Sleep = a.sleep
	}

	res, err := r.Run(context.Background())
	if err != nil {
		logger.Errorf("Run failed: %v", err)
		return 1
	}
	logger.Infof("Run finished: %s", res.Outcome)
	logger.Infof("Shutdown")
	return 0
}
