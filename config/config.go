// Package config loads the library's runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Mode is the evaluation mode of a transform.
type Mode string

const (
	// Development installs the input guard on every bound record.
	Development Mode = "development"

	// Production leaves input records unguarded.
	Production Mode = "production"
)

// Development reports whether m is the development mode.
// Any value other than "development" counts as non-development.
func (m Mode) Development() bool {
	return m == Development
}

// Config holds the environment-driven settings.
type Config struct {
	Mode Mode `env:"TRAPH_ENV" envDefault:"production"`
}

// Load parses Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{Mode: Production}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses Config from the given key/value pairs instead of the process
// environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{Mode: Production}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
