// Package cache stores computed leaderboards between requests.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

const keyPrefix = "prode"

// Cache is a TTL-bounded key/value store for JSON-encodable values.
type Cache interface {
	// Get decodes the value stored at key into dst. Returns ErrCacheMiss when
	// the key is absent or expired.
	Get(ctx context.Context, key string, dst any) error
	// Set stores v at key for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Key joins parts into a namespaced cache key.
func Key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}

// Nop never stores anything.
type Nop struct{}

var _ Cache = Nop{}

// Get implements Cache.
func (Nop) Get(context.Context, string, any) error { return ErrCacheMiss }

// Set implements Cache.
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }

// Open builds the configured backend. The returned close func is never nil.
func Open(ctx context.Context, backend, redisURL string, opts ...MemoryOption) (Cache, func() error, error) {
	nop := func() error { return nil }
	switch strings.ToLower(backend) {
	case BackendMemory, "":
		return NewMemory(opts...), nop, nil
	case BackendNone:
		return Nop{}, nop, nil
	case BackendRedis:
		r, err := DialRedis(ctx, redisURL)
		if err != nil {
			return nil, nop, err
		}
		return r, r.Close, nil
	}
	return nil, nop, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
