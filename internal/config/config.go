// Package config defines service configuration and its loading hooks.
//
// Conventions:
// - New() builds a Config holding the defaults.
// - Load(ctx) layers an optional YAML file and ACTIVITIES_* env vars on top.
// - Errors returned from Load wrap this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// SeedFile optionally replaces the built-in activity catalogue with a YAML file.
	SeedFile string `koanf:"seed_file"`

	// EnforceCapacity rejects sign-ups once max_participants is reached.
	EnforceCapacity bool `koanf:"enforce_capacity"`

	// ChangeQueueSize bounds the in-memory roster change queue.
	ChangeQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of roster change workers.
	WorkerCount int `koanf:"worker_count"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8000",
		EnforceCapacity: false,
		ChangeQueueSize: 1024,
		WorkerCount:     runtime.NumCPU(),
	}
}
