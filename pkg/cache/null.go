package cache

import (
	"context"
	"time"
)

// NullCache disables caching: every Get misses and every Set is dropped.
// The layout runner falls back to it when no cache backend is configured.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns the no-op cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(context.Context, string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}
