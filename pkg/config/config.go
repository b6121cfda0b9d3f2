// Package config loads code-movie extension settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/codemovie/pkg/codemovie"
)

// Argument policies.
const (
	ArgumentsStrict  = "strict"
	ArgumentsLenient = "lenient"
)

// Value grammars.
const (
	GrammarJSON5 = "json5"
	GrammarYAML  = "yaml"
)

// Config holds the extension settings.
type Config struct {
	Runtime          Runtime `yaml:"runtime,omitempty"`
	Arguments        string  `yaml:"arguments,omitempty"`
	Grammar          string  `yaml:"grammar,omitempty"`
	MaxDepth         int     `yaml:"max_depth,omitempty"`
	FallbackLanguage string  `yaml:"fallback_language,omitempty"`
	LogLevel         string  `yaml:"log_level,omitempty"`
}

// Runtime controls the <code-movie-runtime> wrapper around animations.
type Runtime struct {
	Enabled  bool `yaml:"enabled"`
	Controls bool `yaml:"controls,omitempty"`
}

// Validate checks that all fields hold known values.
func (c *Config) Validate() error {
	switch c.Arguments {
	case "", ArgumentsStrict, ArgumentsLenient:
	default:
		return fmt.Errorf("arguments must be %q or %q, got %q", ArgumentsStrict, ArgumentsLenient, c.Arguments)
	}

	switch c.Grammar {
	case "", GrammarJSON5, GrammarYAML:
	default:
		return fmt.Errorf("grammar must be %q or %q, got %q", GrammarJSON5, GrammarYAML, c.Grammar)
	}

	if c.MaxDepth < 0 {
		return errors.New("max_depth must not be negative")
	}

	if c.Runtime.Controls && !c.Runtime.Enabled {
		return errors.New("runtime.controls requires runtime.enabled")
	}

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}

	return nil
}

// Options converts the settings into extension options. Call Validate first.
func (c *Config) Options() []codemovie.Option {
	var opts []codemovie.Option

	if c.Runtime.Enabled {
		opts = append(opts, codemovie.WithRuntime(c.Runtime.Controls))
	}
	if c.Arguments == ArgumentsLenient {
		opts = append(opts, codemovie.WithLenientArguments())
	}
	if c.Grammar == GrammarYAML {
		opts = append(opts, codemovie.WithValueDecoder(codemovie.YAMLFlow))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, codemovie.WithMaxDepth(c.MaxDepth))
	}
	if c.FallbackLanguage != "" {
		opts = append(opts, codemovie.WithMissingLanguage(codemovie.FallbackTo(c.FallbackLanguage)))
	}

	return opts
}

// Logger returns a logger writing to w at the configured level (default: warn).
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	if c.LogLevel != "" {
		if parsed, err := zerolog.ParseLevel(c.LogLevel); err == nil {
			level = parsed
		}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", "codemovie").Logger()
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads and validates the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
