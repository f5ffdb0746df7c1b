// Package config loads fxbgp settings from defaults, an optional YAML file
// and FXBGP_ environment variables.
package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/fxbgp/internal/fxerr"
	"github.com/roach88/fxbgp/internal/term"
)

// EnvPrefix is the prefix of environment overrides, e.g. FXBGP_LOG_LEVEL.
const EnvPrefix = "FXBGP"

// Config is the top-level fxbgp configuration.
type Config struct {
	Naming NamingConfig `mapstructure:"naming"`
	Schema SchemaConfig `mapstructure:"schema"`
	Infer  InferConfig  `mapstructure:"infer"`
	Log    LogConfig    `mapstructure:"log"`
}

// NamingConfig describes how the tabular source names its entities.
type NamingConfig struct {
	Namespace      string        `mapstructure:"namespace"`
	RowIndexPrefix string        `mapstructure:"row_index_prefix"`
	TypePredicates []string      `mapstructure:"type_predicates"`
	RootType       string        `mapstructure:"root_type"`
	Tables         []TableConfig `mapstructure:"tables"`
}

// TableConfig declares one table and its columns.
// Tables are a list rather than a map because viper lowercases map keys.
type TableConfig struct {
	Name    string   `mapstructure:"name"`
	Columns []string `mapstructure:"columns"`
}

// SchemaConfig points at a SQLite database to derive tables from.
type SchemaConfig struct {
	Path string `mapstructure:"path"`
}

// InferConfig tunes the inference engine.
type InferConfig struct {
	StrictSubjects bool `mapstructure:"strict_subjects"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix FXBGP_).
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("naming.namespace", term.DataNamespace)
	v.SetDefault("naming.row_index_prefix", term.RDFNamespace+"_")
	v.SetDefault("naming.type_predicates", []string{term.RDFType})
	v.SetDefault("naming.root_type", term.FXRoot)
	v.SetDefault("schema.path", "")
	v.SetDefault("infer.strict_subjects", false)
	v.SetDefault("log.level", "info")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fxerr.Wrap(err, fxerr.CodeConfigLoadReadFailure, "reading config", fxerr.Field("path", path))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fxerr.Wrap(err, fxerr.CodeConfigParseInvalidFormat, "unmarshalling config", fxerr.Field("path", path))
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateNaming()...)
	errs = append(errs, c.validateLog()...)

	return errs
}

func (c *Config) validateNaming() []error {
	var errs []error
	n := c.Naming

	if !isAbsoluteIRI(n.Namespace) {
		errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
			"config: naming.namespace must be an absolute IRI, got %q", n.Namespace))
	}
	if !isAbsoluteIRI(n.RowIndexPrefix) {
		errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
			"config: naming.row_index_prefix must be an absolute IRI, got %q", n.RowIndexPrefix))
	}
	if !isAbsoluteIRI(n.RootType) {
		errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
			"config: naming.root_type must be an absolute IRI, got %q", n.RootType))
	}

	if len(n.TypePredicates) == 0 {
		errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
			"config: naming.type_predicates must not be empty"))
	}
	for i, p := range n.TypePredicates {
		if !isAbsoluteIRI(p) {
			errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
				"config: naming.type_predicates[%d] must be an absolute IRI, got %q", i, p))
		}
	}

	seen := make(map[string]bool, len(n.Tables))
	for i, t := range n.Tables {
		switch {
		case t.Name == "":
			errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
				"config: naming.tables[%d].name must not be empty", i))
		case strings.ContainsAny(t.Name, "/#"):
			errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
				"config: naming.tables[%d].name must be a local name, got %q", i, t.Name))
		case seen[t.Name]:
			errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
				"config: naming.tables[%d].name %q is declared twice", i, t.Name))
		}
		seen[t.Name] = true

		for j, col := range t.Columns {
			if col == "" || strings.ContainsAny(col, "/#") {
				errs = append(errs, fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
					"config: naming.tables[%d].columns[%d] must be a non-empty local name, got %q", i, j, col))
			}
		}
	}

	return errs
}

func (c *Config) validateLog() []error {
	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; !ok {
		return []error{fxerr.Errorf(fxerr.CodeConfigValidateInvalidValue,
			"config: log.level must be one of [debug, info, warn, error], got %q", c.Log.Level)}
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured level, defaulting to Info.
func (l LogConfig) SlogLevel() slog.Level {
	if level, ok := logLevels[strings.ToLower(l.Level)]; ok {
		return level
	}
	return slog.LevelInfo
}

// Columns returns every declared column of every table.
func (n NamingConfig) Columns() map[string][]string {
	out := make(map[string][]string, len(n.Tables))
	for _, t := range n.Tables {
		out[t.Name] = append([]string(nil), t.Columns...)
	}
	return out
}

func isAbsoluteIRI(s string) bool {
	scheme, rest, ok := strings.Cut(s, ":")
	return ok && scheme != "" && rest != "" && !strings.ContainsAny(s, " <>\"")
}
