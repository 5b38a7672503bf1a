package repository

import "time"

// Option applies a configuration option to the MemoryHistory.
type Option func(*MemoryHistory)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryHistory) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
