package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Useful when several users share one Redis instance and each needs a
// separate cache namespace.
//
// Example usage:
//
//	// User-specific keys for private dashboards
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for shared dashboards
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for a derived layout set.
func (k *ScopedKeyer) LayoutKey(canonicalHash, profilesHash string) string {
	return k.prefix + k.inner.LayoutKey(canonicalHash, profilesHash)
}

// DashboardKey generates a prefixed key for a dashboard document.
func (k *ScopedKeyer) DashboardKey(id string) string {
	return k.prefix + k.inner.DashboardKey(id)
}

// SessionKey generates a prefixed key for session state.
func (k *ScopedKeyer) SessionKey(id string) string {
	return k.prefix + k.inner.SessionKey(id)
}
