package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The root command binds package-level flag variables, so these tests run
// sequentially on fresh commands.

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeLogFile(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "logs.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0600))
	return path
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardBatchSizeArgument(t *testing.T) {
	path := writeLogFile(t, "a line")

	tests := []struct {
		name    string
		arg     string
		wantErr string
	}{
		{"rejects non-integer", "abc", "invalid batch size"},
		{"rejects zero", "0", "batch size must be positive"},
		{"rejects negative", "-5", "batch size must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, path, tt.arg, "--dry-run")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardBatchSizeRejectedBeforeRead(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.txt")

	out, err := runCommand(t, missing, "nope", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid batch size")
	assert.NotContains(t, out, "Reading logs from:")
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.txt")

	_, err := runCommand(t, missing, "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read log file")
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardDryRun(t *testing.T) {
	path := writeLogFile(t, "first", "", "  ", "second")

	out, err := runCommand(t, path, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Found 2 log lines")
	assert.Contains(t, out, "✓ Complete!")
	assert.Contains(t, out, "  Sent:    2 logs")
	assert.Contains(t, out, "  Failed:  0 logs")
	// Payloads land on stdout instead of the wire.
	assert.Contains(t, out, `"resourceLogs"`)
	assert.Contains(t, out, `"stringValue":"first"`)
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardToCollector(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"log.source"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := writeLogFile(t, "one", "two", "three")

	out, err := runCommand(t, path, "--endpoint", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, 3, requests)
	assert.Contains(t, out, "Sending to: "+srv.URL)
	assert.Contains(t, out, "  Sent:    3 logs")
	assert.Contains(t, out, "  Failed:  0 logs")
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardCollectorRejections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := writeLogFile(t, "only line")

	out, err := runCommand(t, path, "--endpoint", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Failed to send log (status 500): only line...")
	assert.Contains(t, out, "  Sent:    0 logs")
	assert.Contains(t, out, "  Failed:  1 logs")
}

//nolint:paralleltest // mutates package-level flag variables and the environment
func TestForwardEndpointPrecedence(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(profile,
		[]byte("endpoint: http://profile-host:4318/v1/logs\n"), 0600))
	path := writeLogFile(t, "a line")

	t.Run("profile beats default", func(t *testing.T) {
		t.Setenv("LOGSHIP_ENDPOINT", "")
		out, err := runCommand(t, path, "--dry-run", "--profile", profile)
		require.NoError(t, err)
		assert.Contains(t, out, "Sending to: http://profile-host:4318/v1/logs")
	})

	t.Run("environment beats profile", func(t *testing.T) {
		t.Setenv("LOGSHIP_ENDPOINT", "http://env-host:4318/v1/logs")
		out, err := runCommand(t, path, "--dry-run", "--profile", profile)
		require.NoError(t, err)
		assert.Contains(t, out, "Sending to: http://env-host:4318/v1/logs")
	})

	t.Run("flag beats environment", func(t *testing.T) {
		t.Setenv("LOGSHIP_ENDPOINT", "http://env-host:4318/v1/logs")
		out, err := runCommand(t, path, "--dry-run",
			"--profile", profile, "--endpoint", "http://flag-host:4318/v1/logs")
		require.NoError(t, err)
		assert.Contains(t, out, "Sending to: http://flag-host:4318/v1/logs")
	})
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardResourceFlags(t *testing.T) {
	path := writeLogFile(t, "a line")

	out, err := runCommand(t, path, "--dry-run",
		"--service-name", "checkout",
		"--environment", "staging",
		"--severity", "WARN")
	require.NoError(t, err)

	assert.Contains(t, out, `"stringValue":"checkout"`)
	assert.Contains(t, out, `"stringValue":"staging"`)
	assert.Contains(t, out, `"severityText":"WARN"`)
	// Unset flags keep their defaults.
	assert.Contains(t, out, `"stringValue":"combo"`)
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardInvalidEndpoint(t *testing.T) {
	path := writeLogFile(t, "a line")

	_, err := runCommand(t, path, "--endpoint", "not-a-url")
	require.Error(t, err)
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardInvalidSeverity(t *testing.T) {
	path := writeLogFile(t, "a line")

	_, err := runCommand(t, path, "--dry-run", "--severity", "LOUD")
	require.Error(t, err)
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardBadMetricsAddress(t *testing.T) {
	path := writeLogFile(t, "a line")

	_, err := runCommand(t, path, "--dry-run", "--metrics-addr", "256.256.256.256:99999")
	require.Error(t, err)
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardTooManyArguments(t *testing.T) {
	_, err := runCommand(t, "a", "b", "c")
	require.Error(t, err)
}

//nolint:paralleltest // mutates package-level flag variables
func TestForwardProgressOutput(t *testing.T) {
	lines := make([]string, 500)
	for i := range lines {
		lines[i] = fmt.Sprintf("log line %d", i)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := writeLogFile(t, lines...)

	out, err := runCommand(t, path, "--endpoint", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Progress: 500/500 logs sent (")
	assert.Contains(t, out, "  Sent:    500 logs")
}

//nolint:paralleltest // mutates package-level flag variables
func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "logship ")
	assert.Contains(t, out, "Commit:")
	assert.Contains(t, out, "Go version:")
}

//nolint:paralleltest // mutates package-level flag variables
func TestVersionCommandJSON(t *testing.T) {
	out, err := runCommand(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])
	assert.NotEmpty(t, info["platform"])
}
