package otlp

import (
	"strings"

	"go.opentelemetry.io/collector/pdata/plog"
)

// SeverityNumber maps a severity name to its OTLP severity number.
// Matching is case-insensitive and unknown names fall back to INFO.
func SeverityNumber(text string) plog.SeverityNumber {
	switch strings.ToLower(text) {
	case "trace":
		return plog.SeverityNumberTrace
	case "debug":
		return plog.SeverityNumberDebug
	case "info":
		return plog.SeverityNumberInfo
	case "warn", "warning":
		return plog.SeverityNumberWarn
	case "error":
		return plog.SeverityNumberError
	case "fatal":
		return plog.SeverityNumberFatal
	default:
		return plog.SeverityNumberInfo
	}
}
