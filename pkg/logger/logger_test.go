package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnstructuredLogsCheck(t *testing.T) { //nolint:paralleltest // Uses environment variables
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Default Case", "", true},
		{"Explicitly True", "true", true},
		{"Explicitly False", "false", false},
		{"Invalid Value", "not-a-bool", true},
	}

	for _, tt := range tests { //nolint:paralleltest // Uses environment variables
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("UNSTRUCTURED_LOGS", tt.envValue)
			} else {
				os.Unsetenv("UNSTRUCTURED_LOGS")
			}

			assert.Equal(t, tt.expected, unstructuredLogs())
		})
	}
}

// captureStdout redirects os.Stdout around fn and returns what was written.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = original

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestStructuredLogger(t *testing.T) { //nolint:paralleltest // Uses environment variables
	t.Setenv("UNSTRUCTURED_LOGS", "false")
	viper.Set("debug", true)
	defer viper.Set("debug", false)

	tests := []struct {
		name    string
		level   string
		logFunc func(msg string, keysAndValues ...any)
	}{
		{"debug", "DEBUG", Debugw},
		{"info", "INFO", Infow},
		{"warn", "WARN", Warnw},
		{"error", "ERROR", Errorw},
	}

	for _, tt := range tests { //nolint:paralleltest // Redirects os.Stdout
		t.Run(tt.name, func(t *testing.T) {
			output := captureStdout(t, func() {
				Initialize()
				tt.logFunc("test message", "key", "value")
			})

			var entry map[string]any
			require.NoError(t, json.Unmarshal([]byte(output), &entry))

			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "test message", entry["msg"])
			assert.Equal(t, "value", entry["key"])
			assert.NotEmpty(t, entry["timestamp"])
		})
	}
}

func TestStructuredLoggerFormatted(t *testing.T) { //nolint:paralleltest // Uses environment variables
	t.Setenv("UNSTRUCTURED_LOGS", "false")

	output := captureStdout(t, func() {
		Initialize()
		Infof("sent %d of %d lines", 3, 5)
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "sent 3 of 5 lines", entry["msg"])
}

func TestDebugSuppressedByDefault(t *testing.T) { //nolint:paralleltest // Uses environment variables
	t.Setenv("UNSTRUCTURED_LOGS", "false")
	viper.Set("debug", false)

	output := captureStdout(t, func() {
		Initialize()
		Debug("hidden")
	})

	assert.Empty(t, output)
}
