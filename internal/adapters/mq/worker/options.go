// Package worker defines worker contracts for asynchronous report exports.
package worker

import (
	"github.com/mkabbani/evround/pkg/logger"
)

// Option applies a configuration option to the ExportWorker.
type Option func(*ExportWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ExportWorker) {
		if name != "" {
			w.name = name
			w.logger = logger.Get().Named(name)
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(log logger.Logger) Option {
	return func(w *ExportWorker) {
		if log != nil {
			w.logger = log
		}
	}
}
