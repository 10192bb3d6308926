// Package config loads the CLI configuration: an optional YAML file,
// environment overrides, then command-line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvDatabase = "FORMLAYOUT_DATABASE"
	EnvLogLevel = "FORMLAYOUT_LOG_LEVEL"
)

// DefaultDatabase is the layout library used when nothing else is set.
const DefaultDatabase = "formlayout.db"

// Config holds the settings shared by every command.
type Config struct {
	// Database is the SQLite file holding saved layouts.
	Database string `yaml:"database"`
	// Properties is a property file or directory of property files.
	Properties string `yaml:"properties"`
	// OpenAPI is a document whose component schema declares the properties.
	OpenAPI string `yaml:"openapi"`
	// Schema names the component schema inside OpenAPI.
	Schema string `yaml:"schema"`
	// Rows and Columns size layouts created by `new`.
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:  DefaultDatabase,
		Rows:      1,
		Columns:   3,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads path (when non-empty) over the defaults and applies the
// environment read through getenv. A nil getenv uses os.Getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvDatabase)); v != "" {
		cfg.Database = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.Rows < 1 || c.Columns < 1 {
		return fmt.Errorf("config: layout size must be at least 1x1, got %dx%d", c.Rows, c.Columns)
	}
	if c.Schema != "" && c.OpenAPI == "" {
		return errors.New("config: schema requires an openapi document")
	}
	return nil
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", raw)
}

// Logger builds the logger described by c. It does not set the global
// logger.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
