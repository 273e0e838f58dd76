package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// DefaultPath is relative to the working directory of the run.
const DefaultPath = "cfg.json"

func Default() *Config {
	return &Config{
		WebhookURL:           "[YOUR DISCORD WEBHOOK REPORT URL HERE]",
		PanicURL:             "[YOUR DISCORD WEBHOOK PANIC URL HERE]",
		WebhookName:          "[YOUR DISCORD WEBHOOK NAME HERE]",
		CPUThreshold:         80,
		LogFileRetentionDays: 30,
		DelaySecs:            5,
	}
}

// Load reads the config at path. When the file does not exist a default
// one is written there and returned with created set; the placeholder
// URLs in it will make delivery fail later rather than stopping the run.
func Load(path string) (cfg *Config, created bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg = Default()
		if err := Save(path, cfg); err != nil {
			return nil, false, err
		}
		return cfg, true, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read config %s", path)
	}

	cfg, err = Parse(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, "config %s", path)
	}
	return cfg, false, nil
}

// Parse decodes data over the defaults, so absent keys keep their default
// value, and validates the result. data must be JSON; the YAML decoder
// would otherwise accept YAML too.
func Parse(data []byte) (*Config, error) {
	if !json.Valid(data) {
		return nil, errors.New("decode: not valid JSON")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.CPUThreshold < 0 {
		return errors.Errorf("cpu_threshold must not be negative, got %v", c.CPUThreshold)
	}
	if c.DelaySecs < 0 {
		return errors.Errorf("delay_secs must not be negative, got %d", c.DelaySecs)
	}
	if c.LogFileRetentionDays < 0 {
		return errors.Errorf("log_file_retention_days must not be negative, got %d", c.LogFileRetentionDays)
	}
	switch c.ProcessSource {
	case "", SourceAuto, SourceProcFS, SourcePsutil:
	default:
		return errors.Errorf("unknown process_source %q", c.ProcessSource)
	}
	return nil
}

// Delay is the pause between the two sampling passes.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelaySecs) * time.Second
}
