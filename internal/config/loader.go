package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PRODE_CONFIG is set
//  3. env (prefix PRODE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PRODE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: PRODE_ADDR, PRODE_CACHE_TTL, ...
	// Map env keys like PRODE_CACHE_TTL -> cache_ttl (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	// List values are comma separated.
	envProvider := env.ProviderWithValue("PRODE_", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, "prode_")
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var listKeys = map[string]struct{}{
	"cors_origins": {},
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: cache_ttl must not be negative", ErrInvalidConfig)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request_timeout must not be negative", ErrInvalidConfig)
	}
	if c.RefreshWorkers < 0 {
		return fmt.Errorf("%w: refresh_workers must not be negative", ErrInvalidConfig)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("%w: refresh_interval must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.CacheBackend) {
	case "memory", "none":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis_url is required for the redis cache backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache_backend %q", ErrInvalidConfig, c.CacheBackend)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %v", ErrInvalidConfig, c.Locale, err)
	}

	for _, id := range c.MonthIDs() {
		if err := c.Months[id].validate(); err != nil {
			return fmt.Errorf("%w: month %q: %v", ErrInvalidConfig, id, err)
		}
	}
	if len(c.Months) > 0 {
		if _, ok := c.Months[c.CurrentMonth]; !ok {
			return fmt.Errorf("%w: current_month %q is not a configured month", ErrInvalidConfig, c.CurrentMonth)
		}
	}
	return nil
}

func (m Month) validate() error {
	if m.DataFile == "" {
		return errors.New("data_file must not be empty")
	}
	seen := make(map[string]struct{}, len(m.Roster))
	for _, name := range m.Roster {
		if strings.TrimSpace(name) == "" {
			return errors.New("roster contains an empty name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("roster lists %q twice", name)
		}
		seen[name] = struct{}{}
	}
	for _, tb := range m.TieBreakers {
		if strings.TrimSpace(tb.Key) == "" {
			return errors.New("tie breaker with empty key")
		}
	}
	for _, p := range m.Prizes {
		for _, pos := range p.Positions {
			if pos < 1 {
				return fmt.Errorf("prize %q has position %d", p.Text, pos)
			}
		}
	}
	return nil
}
