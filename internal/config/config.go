// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory mutation queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of mutation workers.
	WorkerCount int `koanf:"worker_count"`

	// MemoSize caps the number of cached derived reports.
	MemoSize int `koanf:"memo_size"`

	// Store selects the backend: "memory" or "sqlite".
	Store string `koanf:"store"`

	// SQLitePath locates the database file when Store is "sqlite".
	SQLitePath string `koanf:"sqlite_path"`

	// MaxRosterSize caps roster upserts; 0 disables the cap.
	MaxRosterSize int `koanf:"max_roster_size"`

	// CORSAllowedOrigins lists origins the browser dashboard may call from.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU(),
		MemoSize:           16,
		Store:              StoreMemory,
		SQLitePath:         "convoca.db",
		MaxRosterSize:      200,
		CORSAllowedOrigins: []string{"*"},
	}
}
