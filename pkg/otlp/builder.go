// Package otlp builds OTLP/JSON log export payloads.
package otlp

import (
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/plog/plogotlp"

	"github.com/logship/logship/pkg/config"
)

// Record attribute keys stamped on every log record.
const (
	attrLogLevel  = "log.level"
	attrLogSource = "log.source"
)

// Builder is an immutable per-run payload template. Every line is rendered
// against the same resource, scope and severity; only the body and the
// timestamps vary.
type Builder struct {
	resource     map[string]string
	resourceKeys []string
	scopeName    string
	scopeVersion string
	severityText string
	severityNum  plog.SeverityNumber
	levelAttr    string
	source       string
}

// NewBuilder precomputes the payload template from the run configuration.
func NewBuilder(cfg *config.Config) *Builder {
	// Sorted keys keep the rendered attribute order stable across runs.
	keys := make([]string, 0, len(cfg.Resource))
	for k := range cfg.Resource {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Builder{
		resource:     cfg.Resource,
		resourceKeys: keys,
		scopeName:    cfg.Scope.Name,
		scopeVersion: cfg.Scope.Version,
		severityText: cfg.Severity,
		severityNum:  SeverityNumber(cfg.Severity),
		levelAttr:    strings.ToLower(cfg.Severity),
		source:       cfg.Source,
	}
}

// Build renders one line into a Logs payload carrying exactly one record.
// Both timestamps are set to ts: records describe the moment of forwarding,
// not any timestamp embedded in the line itself.
func (b *Builder) Build(line string, ts time.Time) plog.Logs {
	logs := plog.NewLogs()

	resourceLogs := logs.ResourceLogs().AppendEmpty()
	attrs := resourceLogs.Resource().Attributes()
	for _, k := range b.resourceKeys {
		attrs.PutStr(k, b.resource[k])
	}

	scopeLogs := resourceLogs.ScopeLogs().AppendEmpty()
	scopeLogs.Scope().SetName(b.scopeName)
	scopeLogs.Scope().SetVersion(b.scopeVersion)

	record := scopeLogs.LogRecords().AppendEmpty()
	stamp := pcommon.NewTimestampFromTime(ts)
	record.SetTimestamp(stamp)
	record.SetObservedTimestamp(stamp)
	record.SetSeverityNumber(b.severityNum)
	record.SetSeverityText(b.severityText)
	record.Body().SetStr(line)
	record.Attributes().PutStr(attrLogLevel, b.levelAttr)
	record.Attributes().PutStr(attrLogSource, b.source)

	return logs
}

// Marshal renders one line into the OTLP/JSON wire document.
func (b *Builder) Marshal(line string, ts time.Time) ([]byte, error) {
	return plogotlp.NewExportRequestFromLogs(b.Build(line, ts)).MarshalJSON()
}
