package config

// Process sources accepted in process_source. An empty value means auto.
const (
	SourceAuto   = "auto"
	SourceProcFS = "procfs"
	SourcePsutil = "psutil"
)

// Config is read once at startup and shared read-only for the whole run.
type Config struct {
	WebhookURL           string  `json:"webhook_url"`
	PanicURL             string  `json:"panic_url"`
	WebhookName          string  `json:"webhook_name"`
	CPUThreshold         float64 `json:"cpu_threshold"`
	LogFileRetentionDays int     `json:"log_file_retention_days"`
	DelaySecs            int     `json:"delay_secs"`
	ProcessSource        string  `json:"process_source,omitempty"`
}
