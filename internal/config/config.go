// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a JSON configuration document loaded at startup.
	// Empty means the embedded seed catalog.
	CatalogPath string `koanf:"catalog_path"`

	// ExportDir is where report documents are written.
	ExportDir string `koanf:"export_dir"`

	// ExportQueueSize bounds the in-memory export queue.
	ExportQueueSize int `koanf:"export_queue_size"`

	// ExportWorkerCount sets the number of export workers.
	ExportWorkerCount int `koanf:"export_worker_count"`

	// Language selects the default report language: ar or en.
	Language string `koanf:"language"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		CatalogPath:       "",
		ExportDir:         "exports",
		ExportQueueSize:   1024,
		ExportWorkerCount: 2,
		Language:          "ar",
	}
}
