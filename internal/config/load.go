// Package config loads and validates the hook settings file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const envPrefix = "SVNTOOLS"

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Default values.
const (
	defaultTable         = "mecha_hooks_meta_guid"
	defaultMetaExtension = ".meta"
	defaultSvnlook       = "svnlook"
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
)

// Load reads settings from path, applies SVNTOOLS_* environment overrides and
// validates the result. A missing file is not an error: defaults are returned,
// and the hook stays disabled unless the environment enables it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source := ""
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// no settings, defaults only
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := checkSchema(path, data); err != nil {
				return nil, err
			}
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
			source = path
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Source = source

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("enable", false)
	v.SetDefault("database", "")
	v.SetDefault("registry_table", defaultTable)
	v.SetDefault("meta_extension", defaultMetaExtension)
	v.SetDefault("svnlook", defaultSvnlook)

	v.SetDefault("report.max_items", 0)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", defaultLogFormat)

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", false)
}

// checkSchema validates the raw document against the embedded JSON schema.
func checkSchema(path string, data []byte) error {
	var doc gojsonschema.JSONLoader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
		if v == nil {
			v = map[string]any{}
		}
		doc = gojsonschema.NewGoLoader(v)
	default:
		doc = gojsonschema.NewBytesLoader(data)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), doc)
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	return &ValidationError{Errors: errs}
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Enable && strings.TrimSpace(cfg.Database) == "" {
		errs = append(errs, "'database' is required when 'enable' is true — add a mysql:// or file:// connection string")
	}

	if !tableNameRe.MatchString(cfg.RegistryTable) {
		errs = append(errs, fmt.Sprintf("invalid registry_table '%s' — only letters, digits and '_' are allowed", cfg.RegistryTable))
	}

	if !strings.HasPrefix(cfg.MetaExtension, ".") || len(cfg.MetaExtension) < 2 || strings.ContainsAny(cfg.MetaExtension[1:], "./") {
		errs = append(errs, fmt.Sprintf("invalid meta_extension '%s' — must look like '.meta'", cfg.MetaExtension))
	}

	if strings.TrimSpace(cfg.Svnlook) == "" {
		errs = append(errs, "'svnlook' must name the svnlook binary")
	}

	if cfg.Report.MaxItems < 0 {
		errs = append(errs, fmt.Sprintf("report.max_items %d must not be negative", cfg.Report.MaxItems))
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid logging.level '%s' — must be one of: debug, info, warn, error", cfg.Logging.Level))
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid logging.format '%s' — must be one of: text, json", cfg.Logging.Format))
	}

	return errs
}
