package ui

import (
	"bytes"
	"strings"
	"testing"

	"cpuwatch/model"
	"cpuwatch/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	exe := "/usr/bin/ffmpeg"
	r := report.New([]model.ProcessRecord{
		{PID: 4242, Name: "ffmpeg", Exe: &exe, Status: "running", CPUPercent: 95, MemoryPercent: 1.5},
		{PID: 7, Name: "mystery", Status: "sleeping", CPUPercent: 300},
	})

	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, r, 80, "cpu-bot"))
	out := buf.String()

	assert.Contains(t, out, "DRY RUN: 2 heavy process(es) above 80.0% CPU")
	assert.Contains(t, out, "PID")
	assert.Contains(t, out, "4242")
	assert.Contains(t, out, "/usr/bin/ffmpeg")
	assert.Contains(t, out, "mystery")
	assert.Contains(t, out, "Message as cpu-bot:")
	assert.True(t, strings.HasSuffix(out, r.Body), "body is printed verbatim at the end")
}

func TestCPUCell(t *testing.T) {
	assert.Contains(t, cpuCell(50, 80), "50.0")
	assert.Contains(t, cpuCell(90, 80), "90.0")
	assert.Contains(t, cpuCell(170, 80), "170.0")
}
