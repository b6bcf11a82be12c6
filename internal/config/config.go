// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxBodyBytes caps request bodies of the POST endpoints.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// NATSURL enables event publishing when set, e.g. "nats://127.0.0.1:4222".
	NATSURL string `koanf:"nats_url"`

	// NATSSubject is the subject scored assessments are published on.
	NATSSubject string `koanf:"nats_subject"`
}

// New creates a Config holding the defaults. The context is reserved for
// future loaders.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		MaxBodyBytes: 64 << 10,
		NATSSubject:  "burnrisk.assessments.scored",
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.NATSURL != "" && strings.TrimSpace(c.NATSSubject) == "" {
		return fmt.Errorf("%w: nats_subject must be set when nats_url is", ErrInvalidConfig)
	}
	return nil
}
