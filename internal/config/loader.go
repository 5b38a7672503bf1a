package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if EVROUND_CONFIG is set
//  3. env (prefix EVROUND_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("EVROUND_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: EVROUND_ADDR, EVROUND_EXPORT_DIR, ...
	// Map env keys like EVROUND_EXPORT_DIR -> export_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("EVROUND_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "evround_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.ExportDir == "" {
		return fmt.Errorf("%w: export_dir must not be empty", ErrInvalidConfig)
	}
	if c.ExportQueueSize < 1 {
		return fmt.Errorf("%w: export_queue_size must be positive", ErrInvalidConfig)
	}
	if c.ExportWorkerCount < 1 {
		return fmt.Errorf("%w: export_worker_count must be positive", ErrInvalidConfig)
	}
	switch c.Language {
	case "ar", "en":
	default:
		return fmt.Errorf("%w: language must be ar or en", ErrInvalidConfig)
	}
	return nil
}
