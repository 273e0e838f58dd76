package model

// ProcessRecord is a point-in-time snapshot of one process.
//
// CPUPercent is CPU time over the measured interval divided by wall time,
// times 100. It is not normalised by core count, so a busy process on an
// 8 core host can report up to 800.
type ProcessRecord struct {
	PID      int32
	Name     string
	Exe      *string
	Username *string
	Status   string

	CPUPercent    float64
	MemoryPercent float64
}

// IsIdleSentinel reports whether r is the OS idle pseudo-process, whose CPU
// figure is idle time rather than work.
func IsIdleSentinel(r ProcessRecord) bool {
	if r.Name == "System Idle Process" {
		return true
	}
	return r.PID == 0 && r.Name == "Idle"
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
