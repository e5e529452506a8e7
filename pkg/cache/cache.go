// Package cache provides the caching layer for derived layouts and other
// expensive-to-recompute artifacts.
//
// The [Cache] interface abstracts the storage backend: a file cache for
// single-user CLI and server setups, a Redis cache for multi-instance
// deployments, and a null cache for tests and disabled caching.
//
// Cache keys are produced by a [Keyer] so every component agrees on the
// key scheme. Keys are content-addressed: a layout key hashes the
// canonical arrangement and the breakpoint profile set, so any edit or
// profile change misses cleanly instead of serving a stale derivation.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement. Values are opaque
// byte slices; callers handle their own serialization. A zero ttl means
// the entry never expires.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given time-to-live.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the different artifact kinds.
type Keyer interface {
	// LayoutKey generates a key for a derived layout set. canonicalHash
	// is the content hash of the canonical arrangement, profilesHash the
	// content hash of the breakpoint profile set.
	LayoutKey(canonicalHash, profilesHash string) string

	// DashboardKey generates a key for a cached dashboard document.
	DashboardKey(id string) string

	// SessionKey generates a key for session state.
	SessionKey(id string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a derived layout set.
func (k *DefaultKeyer) LayoutKey(canonicalHash, profilesHash string) string {
	return hashKey("layout", canonicalHash, profilesHash)
}

// DashboardKey generates a key for a cached dashboard document.
func (k *DefaultKeyer) DashboardKey(id string) string {
	return "dashboard:" + id
}

// SessionKey generates a key for session state.
func (k *DefaultKeyer) SessionKey(id string) string {
	return "session:" + id
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
