package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/stacklume/stacklume/pkg/cache"
	"github.com/stacklume/stacklume/pkg/dashboard"
	"github.com/stacklume/stacklume/pkg/grid"
	sess "github.com/stacklume/stacklume/pkg/session"
)

// defaultPort is the API server port when the config does not set one.
const defaultPort = 8480

// =============================================================================
// Config
// =============================================================================

// Config is the TOML configuration loaded from stacklume.toml.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Cache    CacheConfig    `toml:"cache"`
	Session  SessionConfig  `toml:"session"`
	Profiles []grid.Profile `toml:"profiles"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port          int    `toml:"port"`
	SessionSecret string `toml:"session_secret"`
	NoAuth        bool   `toml:"no_auth"`
	Username      string `toml:"username"`
	Password      string `toml:"password"`

	// SecureCookies restricts the session and CSRF cookies to HTTPS.
	// Enable when serving behind TLS; keep off for plain-HTTP local use.
	SecureCookies bool `toml:"secure_cookies"`

	// CleanupMinutes is how often expired sessions are swept. Zero uses
	// the default of 30 minutes.
	CleanupMinutes int `toml:"cleanup_minutes"`
}

// StoreConfig selects the dashboard persistence backend.
type StoreConfig struct {
	// Backend is "file" (default) or "mongo".
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// CacheConfig selects the derived-layout cache backend.
type CacheConfig struct {
	// Backend is "file" (default), "redis", or "none".
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	URL     string `toml:"url"`
}

// SessionConfig selects the session store backend.
type SessionConfig struct {
	// Backend is "file" (default) or "redis".
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	URL     string `toml:"url"`
}

// LoadConfig reads the config file at path. An empty path falls back to
// ~/.config/stacklume/stacklume.toml, and a missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "stacklume.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.CleanupMinutes == 0 {
		c.Server.CleanupMinutes = 30
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "file"
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "file":
	case "mongo":
		if c.Store.URI == "" {
			return fmt.Errorf("store backend %q requires uri", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case "file", "none":
	case "redis":
		if c.Cache.URL == "" {
			return fmt.Errorf("cache backend %q requires url", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Session.Backend {
	case "file":
	case "redis":
		if c.Session.URL == "" {
			return fmt.Errorf("session backend %q requires url", c.Session.Backend)
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	if len(c.Profiles) > 0 {
		if err := grid.ProfileSet(c.Profiles).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ProfileSet returns the configured breakpoint profiles, falling back to
// the built-in wide/medium/narrow set.
func (c *Config) ProfileSet() grid.ProfileSet {
	if len(c.Profiles) > 0 {
		return grid.ProfileSet(c.Profiles)
	}
	return grid.DefaultProfiles()
}

// CleanupInterval returns the session sweep interval.
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.Server.CleanupMinutes) * time.Minute
}

// =============================================================================
// Backend Constructors
// =============================================================================

// OpenStore opens the configured dashboard store.
func (c *Config) OpenStore(ctx context.Context) (dashboard.Store, error) {
	switch c.Store.Backend {
	case "mongo":
		db := c.Store.Database
		if db == "" {
			db = appName
		}
		return dashboard.NewMongoStore(ctx, c.Store.URI, db)
	default:
		dir := c.Store.Dir
		if dir == "" {
			base, err := dataDir()
			if err != nil {
				return nil, fmt.Errorf("resolve data dir: %w", err)
			}
			dir = filepath.Join(base, "dashboards")
		}
		return dashboard.NewFileStore(dir)
	}
}

// OpenCache opens the configured layout cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.Cache.URL)
	default:
		dir := c.Cache.Dir
		if dir == "" {
			base, err := cacheDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = base
		}
		return cache.NewFileCache(dir)
	}
}

// OpenSessions opens the configured session store and a matching
// login-state store.
func (c *Config) OpenSessions(ctx context.Context) (sess.Store, sess.StateStore, error) {
	switch c.Session.Backend {
	case "redis":
		store, err := sess.NewRedisStore(ctx, c.Session.URL)
		if err != nil {
			return nil, nil, err
		}
		return store, sess.NewRedisStateStore(store), nil
	default:
		dir := c.Session.Dir
		if dir == "" {
			base, err := configDir()
			if err != nil {
				return nil, nil, fmt.Errorf("resolve config dir: %w", err)
			}
			dir = filepath.Join(base, "sessions")
		}
		store, err := sess.NewFileStore(dir)
		if err != nil {
			return nil, nil, err
		}
		return store, sess.NewMemoryStateStore(), nil
	}
}
