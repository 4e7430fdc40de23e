package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"error", ERROR},
		{"WARN", WARN},
		{"warning", WARN},
		{" Info ", INFO},
		{"debug", DEBUG},
		{"TRACE", TRACE},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(&buf, INFO)

	lg.Errorf("bad %d", 1)
	lg.Warnf("careful")
	lg.Infof("hello %s", "mesh")
	lg.Debugf("hidden")
	lg.Tracef("hidden too")

	out := buf.String()
	assert.Contains(t, out, "ERROR bad 1")
	assert.Contains(t, out, "WARN  careful")
	assert.Contains(t, out, "INFO  hello mesh")
	assert.NotContains(t, out, "hidden")
	assert.True(t, lg.Enabled(WARN))
	assert.False(t, lg.Enabled(TRACE))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "LogLevel(9)", LogLevel(9).String())
}
