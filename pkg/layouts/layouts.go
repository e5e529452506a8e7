// Package layouts provides the layout derivation service for Stacklume.
//
// This package ties the pure grid engine to dashboard storage and the
// cache: load the canonical arrangement, derive an arrangement per
// breakpoint, serve edits back into canonical space. By centralizing
// this logic, CLI and API behave identically and caching lives in one
// place.
//
// # Architecture
//
// The service has three operations:
//
//  1. DeriveAll: canonical arrangement → one arrangement per breakpoint
//  2. SaveEdited: an edit made at any breakpoint → new canonical arrangement
//  3. Current: viewport width → the single arrangement the client needs
//
// Derived layouts are ephemeral: only the canonical arrangement is
// persisted, and the cache key is content-addressed on the canonical
// arrangement and profile set, so edits invalidate implicitly.
//
// # Usage
//
// Create a Runner and derive layouts:
//
//	runner := layouts.NewRunner(store, cache, nil, logger)
//	result, err := runner.DeriveAll(ctx, dashboardID, layouts.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	narrow := result.Layouts["narrow"]
package layouts

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/stacklume/stacklume/pkg/grid"
)

// TTLLayout is how long derived layouts stay cached. Content-addressed
// keys mean a stale entry can only be served for an unchanged dashboard,
// so the TTL exists to bound cache growth, not staleness.
const TTLLayout = 24 * time.Hour

// Options configures a derivation run.
type Options struct {
	// Refresh skips the cache read (the result is still written back).
	Refresh bool `json:"refresh,omitempty"`

	// TTL overrides the default cache TTL.
	TTL time.Duration `json:"-"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults applies defaults. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.TTL == 0 {
		o.TTL = TTLLayout
	}
	return nil
}

// Result contains the outputs of a derivation run.
type Result struct {
	// Layouts holds one arrangement per breakpoint, keyed by profile name.
	Layouts map[string]grid.Arrangement `json:"layouts"`

	// Profiles is the breakpoint set the layouts were derived for.
	Profiles grid.ProfileSet `json:"profiles"`

	// CanonicalHash is the content hash of the canonical arrangement.
	CanonicalHash string `json:"canonical_hash"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks whether the run hit the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains derivation statistics.
type Stats struct {
	WidgetCount int           `json:"widget_count"`
	Breakpoints int           `json:"breakpoints"`
	DeriveTime  time.Duration `json:"derive_time"`
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"` // Whether the derived layouts came from cache
}
