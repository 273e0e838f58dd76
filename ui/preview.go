// Package ui prints what a dry run would have sent.
package ui

import (
	"fmt"
	"io"
	"strconv"

	"cpuwatch/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// cpuCell colours a CPU figure relative to the alert threshold.
func cpuCell(cpu, threshold float64) string {
	s := report.CPU(cpu)
	switch {
	case cpu > 2*threshold:
		return highCPUStyle.Render(s)
	case cpu > threshold:
		return medCPUStyle.Render(s)
	}
	return s
}

func orNone(s *string) string {
	if s == nil {
		return report.Missing
	}
	return *s
}

// Preview writes a table of the heavy processes followed by the exact
// message body, so a --test run can be checked by eye.
func Preview(w io.Writer, r report.Report, threshold float64, username string) error {
	banner := fmt.Sprintf("DRY RUN: %d heavy process(es) above %s%% CPU", len(r.Records), report.Number(threshold))
	if _, err := fmt.Fprintln(w, bannerStyle.Render(banner)); err != nil {
		return err
	}

	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	tbl := table.New("PID", "Name", "CPU%", "MEM%", "Status", "User", "Exe")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)
	tbl.WithWriter(w).WithWidthFunc(lipgloss.Width)
	for _, rec := range r.Records {
		tbl.AddRow(
			strconv.FormatInt(int64(rec.PID), 10),
			rec.Name,
			cpuCell(rec.CPUPercent, threshold),
			report.Number(rec.MemoryPercent),
			rec.Status,
			orNone(rec.Username),
			orNone(rec.Exe),
		)
	}
	tbl.Print()

	if _, err := fmt.Fprintln(w, titleStyle.Render("Message as "+username+":")); err != nil {
		return err
	}
	_, err := io.WriteString(w, r.Body)
	return err
}
