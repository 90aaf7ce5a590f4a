package otlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/collector/pdata/plog"
)

func TestSeverityNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want plog.SeverityNumber
	}{
		{"trace", plog.SeverityNumberTrace},
		{"debug", plog.SeverityNumberDebug},
		{"info", plog.SeverityNumberInfo},
		{"INFO", plog.SeverityNumberInfo},
		{"warn", plog.SeverityNumberWarn},
		{"WARNING", plog.SeverityNumberWarn},
		{"error", plog.SeverityNumberError},
		{"Fatal", plog.SeverityNumberFatal},
		{"verbose", plog.SeverityNumberInfo},
		{"", plog.SeverityNumberInfo},
	}

	for _, tt := range tests {
		tt := tt
		t.Run("maps "+tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SeverityNumber(tt.text))
		})
	}
}
