// Package config holds the driver-facing knobs of the ingestion pipeline,
// plus the ambient logging options a real CLI needs.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the set of options a driver can pass to internal/pipeline.
type Config struct {
	// FollowPackageTypes enables resolving bare specifiers into
	// node_modules package.json typings.
	FollowPackageTypes bool `yaml:"follow_package_types"`
	// StrictMissing controls whether UnsupportedTypeNode and
	// UnresolvedReference abort ingestion or degrade to a logged fallback.
	StrictMissing bool `yaml:"strict_missing"`
	// TraceUnresolved additionally logs every Ref the resolver has to
	// chase, at debug level, regardless of StrictMissing.
	TraceUnresolved bool `yaml:"trace_unresolved"`

	// LogLevel and LogFormat configure the slog handler NewLogger builds
	// for internal/pipeline.
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the mandated defaults: follow_package_types and
// strict_missing true, trace_unresolved false.
func Default() Config {
	return Config{
		FollowPackageTypes: true,
		StrictMissing:      true,
		TraceUnresolved:    false,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Load reads a YAML configuration file, starting from Default() so that
// any field the file omits keeps its mandated default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SlogLevel translates LogLevel to a slog.Level, defaulting to Info for an
// unrecognised value.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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

// NewLogger builds the slog.Logger that internal/pipeline.Ingest uses and
// hands to the collector and resolver, honouring LogFormat.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
