// Package config contains the definition of the forwarding run configuration
// and the logic required to load and validate it.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/logship/logship/pkg/versions"
)

// DefaultEndpoint is the OTLP/HTTP logs URL used when nothing else is configured.
const DefaultEndpoint = "http://localhost:4318/v1/logs"

// xdgProfilePath is where the optional default profile lives under the XDG
// config home.
const xdgProfilePath = "logship/profile.yaml"

// Predefined error responses for configuration validation failures
var (
	errMissingEndpoint = errors.New("endpoint must be specified")
	errInvalidEndpoint = errors.New("endpoint must be an absolute URL in the form <scheme>://<host>[:<port>][/path]")
	errInvalidTimeout  = errors.New("timeout must be greater than zero")
	errNegativeRate    = errors.New("rate must not be negative")
)

// Duration is a wrapper around time.Duration that marshals/unmarshals as a
// duration string, so profiles can say "10s" instead of an integer in
// nanoseconds.
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(dur)
	return nil
}

// ScopeConfig identifies the instrumentation scope stamped on every record.
type ScopeConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Config holds everything a forwarding run needs to build and deliver
// payloads. Zero values mean "unset"; Load fills them from Default.
type Config struct {
	// Endpoint is the OTLP/HTTP logs URL payloads are POSTed to.
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds the wait for each individual HTTP request.
	Timeout Duration `yaml:"timeout"`

	// Severity is the severity text stamped on every record. The numeric
	// severity is derived from it.
	Severity string `yaml:"severity"`

	// Gzip enables gzip compression of request bodies.
	Gzip bool `yaml:"gzip"`

	// Rate caps lines per second; zero means unlimited.
	Rate float64 `yaml:"rate"`

	// Source is the value of the log.source attribute on every record.
	Source string `yaml:"source"`

	// Resource holds the resource attributes describing the origin of the
	// forwarded records.
	Resource map[string]string `yaml:"resource"`

	// Scope is the instrumentation scope descriptor.
	Scope ScopeConfig `yaml:"scope"`
}

// Default returns the canonical run configuration. These values reproduce
// the payload template logship has always emitted, so running with no
// profile and no flags behaves identically across versions.
func Default() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
		Timeout:  Duration(5 * time.Second),
		Severity: "INFO",
		Source:   "file",
		Resource: map[string]string{
			"service.name":           "real-logs",
			"host.name":              "combo",
			"deployment.environment": "production",
		},
		Scope: ScopeConfig{
			Name:    "logship",
			Version: versions.GetVersionInfo().Version,
		},
	}
}

// searchProfile locates the optional default profile, can be replaced in tests
var searchProfile = func() (string, error) {
	return xdg.SearchConfigFile(xdgProfilePath)
}

// Load builds the run configuration. When path is non-empty the YAML profile
// at that path is loaded and must exist; when it is empty an optional profile
// is looked up at the XDG config location. Profile keys are individually
// optional - anything unset keeps its default.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := searchProfile()
		if err != nil {
			// No default profile installed; run on defaults alone.
			return Default(), nil
		}
		path = found
	}

	data, err := os.ReadFile(path) // #nosec G304 - profile path comes from the user's own CLI flag
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	// Fill anything the profile left unset with the canonical defaults.
	// Resource attributes merge key by key, so a profile can add attributes
	// without restating the default ones.
	if err := mergo.Merge(cfg, Default()); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and returns the first problem found.
// Validation failures are fatal: the run must not start on a bad config.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errMissingEndpoint
	}
	u, err := url.ParseRequestURI(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidEndpoint, c.Endpoint)
	}

	if c.Timeout <= 0 {
		return errInvalidTimeout
	}

	if c.Rate < 0 {
		return errNegativeRate
	}

	switch strings.ToLower(c.Severity) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("unknown severity %q", c.Severity)
	}

	return nil
}
