package grid

import (
	"errors"
	"sort"
)

var (
	// ErrNoProfiles is returned by [ProfileSet.Validate] for an empty set.
	// At least one profile is needed to define the canonical column space.
	ErrNoProfiles = errors.New("profile set must not be empty")

	// ErrInvalidProfileName is returned by [ProfileSet.Validate] when a
	// profile has an empty name.
	ErrInvalidProfileName = errors.New("profile name must not be empty")

	// ErrDuplicateProfileName is returned by [ProfileSet.Validate] when two
	// profiles share a name.
	ErrDuplicateProfileName = errors.New("duplicate profile name")

	// ErrInvalidColumns is returned by [ProfileSet.Validate] when a profile
	// has a column count below one.
	ErrInvalidColumns = errors.New("profile column count must be at least 1")
)

// Profile is one named viewport-width tier with its grid column count.
// MinWidthPx is the viewport width at which the profile activates.
// Profiles are configuration, not a contract - see [DefaultProfiles] for
// the reference values.
type Profile struct {
	Name       string `json:"name" toml:"name"`
	Columns    int    `json:"columns" toml:"columns"`
	MinWidthPx int    `json:"min_width_px" toml:"min_width_px"`
}

// ProfileSet is the ordered set of breakpoint profiles a dashboard is
// derived for. The profile with the largest column count is the canonical
// one; its arrangement is the persisted source of truth.
type ProfileSet []Profile

// DefaultProfiles returns the reference breakpoint set:
// wide (12 columns, 1200px), medium (10 columns, 996px),
// narrow (6 columns, 768px).
func DefaultProfiles() ProfileSet {
	return ProfileSet{
		{Name: "wide", Columns: 12, MinWidthPx: 1200},
		{Name: "medium", Columns: 10, MinWidthPx: 996},
		{Name: "narrow", Columns: 6, MinWidthPx: 768},
	}
}

// Canonical returns the profile with the largest column count. Ties break
// toward the earlier profile in the set. Calling Canonical on an empty set
// returns the zero Profile; validate first.
func (ps ProfileSet) Canonical() Profile {
	var best Profile
	for i, p := range ps {
		if i == 0 || p.Columns > best.Columns {
			best = p
		}
	}
	return best
}

// ByName returns the profile with the given name.
func (ps ProfileSet) ByName(name string) (Profile, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Match resolves a viewport pixel width to its active profile: the widest
// profile whose activation width the viewport meets or exceeds. A viewport
// narrower than every activation width falls back to the narrowest
// profile, the one with the fewest columns. Calling Match on an empty set
// returns the zero Profile.
func (ps ProfileSet) Match(viewportPx int) Profile {
	if len(ps) == 0 {
		return Profile{}
	}
	sorted := make(ProfileSet, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinWidthPx > sorted[j].MinWidthPx
	})
	for _, p := range sorted {
		if viewportPx >= p.MinWidthPx {
			return p
		}
	}
	narrowest := ps[0]
	for _, p := range ps[1:] {
		if p.Columns < narrowest.Columns {
			narrowest = p
		}
	}
	return narrowest
}

// Validate checks the profile set: non-empty, unique non-empty names, and
// column counts of at least one. It returns the first violated sentinel
// error, or nil.
func (ps ProfileSet) Validate() error {
	if len(ps) == 0 {
		return ErrNoProfiles
	}
	seen := make(map[string]bool, len(ps))
	for _, p := range ps {
		if p.Name == "" {
			return ErrInvalidProfileName
		}
		if seen[p.Name] {
			return ErrDuplicateProfileName
		}
		seen[p.Name] = true
		if p.Columns < 1 {
			return ErrInvalidColumns
		}
	}
	return nil
}
