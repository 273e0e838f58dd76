package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIdleSentinel(t *testing.T) {
	cases := []struct {
		rec  ProcessRecord
		want bool
	}{
		{ProcessRecord{PID: 0, Name: "System Idle Process"}, true},
		{ProcessRecord{PID: 0, Name: "Idle"}, true},
		{ProcessRecord{PID: 812, Name: "Idle"}, false},
		{ProcessRecord{PID: 0, Name: "kernel_task"}, false},
		{ProcessRecord{PID: 4, Name: "System"}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsIdleSentinel(tc.rec), "%d/%s", tc.rec.PID, tc.rec.Name)
	}
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	if p := StringPtr("/bin/sh"); assert.NotNil(t, p) {
		assert.Equal(t, "/bin/sh", *p)
	}
}
