// Package report renders heavy processes into the notification body.
package report

import (
	"strconv"
	"strings"

	"cpuwatch/model"
)

const Header = "Heavy processes found!"

// Missing marks an attribute the OS would not give us.
const Missing = "None"

// Report is the heavy-process set of one run and its rendered body.
type Report struct {
	Records []model.ProcessRecord
	Body    string
}

func New(records []model.ProcessRecord) Report {
	return Report{Records: records, Body: Format(records)}
}

// Format renders one block per record, in order:
//
//	# <name>
//	exe: <exe>
//	*CPU Usage: <cpu>*%
//	Memory Usage: <mem>
//	pid: <pid>
//	status: <status>
//	username: <username>
//
// Each block is followed by a blank line.
func Format(records []model.ProcessRecord) string {
	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteString("\n\n")
	for _, r := range records {
		sb.WriteString("# " + r.Name + "\n")
		sb.WriteString("exe: " + optional(r.Exe) + "\n")
		sb.WriteString("*CPU Usage: " + CPU(r.CPUPercent) + "*%\n")
		sb.WriteString("Memory Usage: " + Number(r.MemoryPercent) + "\n")
		sb.WriteString("pid: " + strconv.FormatInt(int64(r.PID), 10) + "\n")
		sb.WriteString("status: " + r.Status + "\n")
		sb.WriteString("username: " + optional(r.Username) + "\n\n")
	}
	return sb.String()
}

// CPU prints a CPU figure with exactly one decimal: 47.368 -> "47.4".
func CPU(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Number prints the shortest decimal that round-trips, always with a
// fractional part: 95 -> "95.0", 12.25 -> "12.25".
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

func optional(s *string) string {
	if s == nil {
		return Missing
	}
	return *s
}
