package layouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stacklume/stacklume/pkg/cache"
	"github.com/stacklume/stacklume/pkg/dashboard"
	apperrors "github.com/stacklume/stacklume/pkg/errors"
	"github.com/stacklume/stacklume/pkg/grid"
	"github.com/stacklume/stacklume/pkg/observability"
)

// Runner encapsulates layout derivation with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't
// store derivation results. Multiple goroutines can safely use the same
// Runner.
type Runner struct {
	Store  dashboard.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given store, cache, and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(store dashboard.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  store,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// DeriveAll loads a dashboard and returns one arrangement per breakpoint
// profile, derived from the canonical arrangement.
func (r *Runner) DeriveAll(ctx context.Context, dashboardID string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	d, err := r.load(ctx, dashboardID)
	if err != nil {
		return nil, err
	}
	return r.deriveForDashboard(ctx, d, opts, logger)
}

// deriveForDashboard derives layouts for an already-loaded dashboard,
// consulting the cache first.
func (r *Runner) deriveForDashboard(ctx context.Context, d *dashboard.Dashboard, opts Options, logger *log.Logger) (*Result, error) {
	profiles := d.EffectiveProfiles()
	result := &Result{
		Profiles:      profiles,
		CanonicalHash: d.CanonicalHash(),
	}
	result.Stats.WidgetCount = len(d.Canonical)
	result.Stats.Breakpoints = len(profiles)

	cacheKey := r.Keyer.LayoutKey(result.CanonicalHash, d.ProfilesHash())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached map[string]grid.Arrangement
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				result.Layouts = cached
				result.CacheInfo.LayoutHit = true
				return result, nil
			}
			// Corrupt entry: fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Layout().OnDeriveStart(ctx, d.ID, len(d.Canonical))
	start := time.Now()
	layouts := grid.DeriveAll(d.Canonical, profiles)
	result.Stats.DeriveTime = time.Since(start)
	observability.Layout().OnDeriveComplete(ctx, d.ID, len(layouts), result.Stats.DeriveTime, nil)

	logger.Info("derived layouts",
		"dashboard", d.ID,
		"widgets", len(d.Canonical),
		"breakpoints", len(layouts),
		"duration", result.Stats.DeriveTime)

	if data, err := json.Marshal(layouts); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, opts.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	result.Layouts = layouts
	return result, nil
}

// SaveEdited maps an arrangement edited at the given breakpoint back to
// canonical coordinates, compacts away any collisions the reverse
// mapping introduced, validates, and persists the new canonical
// arrangement. It returns the updated dashboard.
func (r *Runner) SaveEdited(ctx context.Context, dashboardID, breakpoint string, edited grid.Arrangement, opts Options) (*dashboard.Dashboard, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	d, err := r.load(ctx, dashboardID)
	if err != nil {
		return nil, err
	}

	profiles := d.EffectiveProfiles()
	profile, ok := profiles.ByName(breakpoint)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidBreakpoint, "unknown breakpoint %q", breakpoint)
	}
	canonical := profiles.Canonical()

	observability.Layout().OnNormalizeStart(ctx, d.ID, breakpoint)
	start := time.Now()

	next := edited.Clone()
	if profile.Name != canonical.Name {
		next = grid.Normalize(next, profile.Columns, canonical.Columns)
		// Reverse rescaling can reintroduce overlaps; compaction makes
		// the result valid canonical space again.
		next = grid.Compact(next, canonical.Columns)
	}

	// Locks are dashboard state, not edit state: restamp from the stored
	// canonical arrangement.
	locked := grid.LockStates(d.Canonical)
	for i := range next {
		next[i].Locked = locked[next[i].ID]
	}

	prev := d.Canonical
	d.Canonical = next
	if err := d.Validate(); err != nil {
		d.Canonical = prev
		observability.Layout().OnNormalizeComplete(ctx, d.ID, breakpoint, time.Since(start), err)
		return nil, err
	}

	if err := r.save(ctx, d); err != nil {
		observability.Layout().OnNormalizeComplete(ctx, d.ID, breakpoint, time.Since(start), err)
		return nil, err
	}
	observability.Layout().OnNormalizeComplete(ctx, d.ID, breakpoint, time.Since(start), nil)

	logger.Info("saved edited layout",
		"dashboard", d.ID,
		"breakpoint", breakpoint,
		"widgets", len(next),
		"duration", time.Since(start))
	return d, nil
}

// Current resolves a viewport width to its breakpoint and returns that
// breakpoint's arrangement along with the matched profile.
func (r *Runner) Current(ctx context.Context, dashboardID string, viewportPx int, opts Options) (grid.Profile, grid.Arrangement, error) {
	result, err := r.DeriveAll(ctx, dashboardID, opts)
	if err != nil {
		return grid.Profile{}, nil, err
	}

	profile := result.Profiles.Match(viewportPx)
	arr, ok := result.Layouts[profile.Name]
	if !ok {
		return grid.Profile{}, nil, apperrors.New(apperrors.ErrCodeInternal, "derived layouts missing breakpoint %q", profile.Name)
	}
	return profile, arr, nil
}

// CompactCanonical closes vertical gaps in the stored canonical
// arrangement and persists the result. It returns the number of widgets
// that moved.
func (r *Runner) CompactCanonical(ctx context.Context, dashboardID string, opts Options) (int, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return 0, fmt.Errorf("invalid options: %w", err)
	}

	d, err := r.load(ctx, dashboardID)
	if err != nil {
		return 0, err
	}

	columns := d.EffectiveProfiles().Canonical().Columns
	compacted := grid.Compact(d.Canonical, columns)

	moved := 0
	before := make(map[string]grid.Placement, len(d.Canonical))
	for _, p := range d.Canonical {
		before[p.ID] = p
	}
	for _, p := range compacted {
		if prev, ok := before[p.ID]; ok && (prev.X != p.X || prev.Y != p.Y) {
			moved++
		}
	}
	observability.Layout().OnCompact(ctx, d.ID, moved)

	if moved == 0 {
		return 0, nil
	}

	d.Canonical = compacted
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if err := r.save(ctx, d); err != nil {
		return 0, err
	}
	return moved, nil
}

// load reads a dashboard with store hooks and error-code mapping.
func (r *Runner) load(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	start := time.Now()
	d, err := r.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, id, time.Since(start), err)
	if errors.Is(err, dashboard.ErrNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeDashboardNotFound, "dashboard %q not found", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "load dashboard %q", id)
	}
	return d, nil
}

// save writes a dashboard with store hooks and error-code mapping.
func (r *Runner) save(ctx context.Context, d *dashboard.Dashboard) error {
	start := time.Now()
	err := r.Store.Save(ctx, d)
	observability.Store().OnSave(ctx, d.ID, time.Since(start), err)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "save dashboard %q", d.ID)
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// logger resolves the effective logger for a run.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
