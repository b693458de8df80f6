package config

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// DefaultPath is where the hook looks for its settings when --config is not given.
const DefaultPath = "./config/SVNToolSetting.json"

// Config holds the hook settings.
type Config struct {
	// Enable turns validation on. A missing settings file leaves it false.
	Enable bool `mapstructure:"enable" yaml:"enable"`

	// Database is the registry connection string.
	Database string `mapstructure:"database" yaml:"database"`

	RegistryTable string `mapstructure:"registry_table" yaml:"registry_table"`
	MetaExtension string `mapstructure:"meta_extension" yaml:"meta_extension"`
	Svnlook       string `mapstructure:"svnlook" yaml:"svnlook"`

	Report    ReportConfig    `mapstructure:"report" yaml:"report"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Source is the file the settings were read from; empty when defaults were used.
	Source string `mapstructure:"-" yaml:"-"`
}

// ReportConfig controls diagnostic output.
type ReportConfig struct {
	// MaxItems caps printed entries per section. Zero means no cap.
	MaxItems int `mapstructure:"max_items" yaml:"max_items"`
}

// LoggingConfig controls operator logs on stderr.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure" yaml:"otlp_insecure"`
}

// SlogLevel maps Level to a slog level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// JSON reports whether logs should be JSON encoded.
func (l LoggingConfig) JSON() bool {
	return strings.EqualFold(l.Format, "json")
}

var dsnPasswordRe = regexp.MustCompile(`^([^:@/]+):([^@]*)@`)

// Redacted returns a copy with the database password masked.
func (c Config) Redacted() Config {
	out := c
	if u, err := url.Parse(c.Database); err == nil && u.Scheme != "" && u.User != nil {
		out.Database = u.Redacted()
		return out
	}
	out.Database = dsnPasswordRe.ReplaceAllString(c.Database, "$1:xxxxx@")
	return out
}
