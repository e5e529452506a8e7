// Package cli implements the stacklume command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stacklume/stacklume/pkg/buildinfo"
	"github.com/stacklume/stacklume/pkg/cache"
	"github.com/stacklume/stacklume/pkg/dashboard"
	"github.com/stacklume/stacklume/pkg/layouts"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stacklume"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location. Set by the
	// persistent --config flag.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "stacklume",
		Short:        "Stacklume serves responsive widget dashboards",
		Long:         `Stacklume is a self-hosted dashboard server. Widgets are arranged once on a canonical grid and layouts for smaller screens are derived automatically.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "path to stacklume.toml (default: ~/.config/stacklume/stacklume.toml)")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.dashboardCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.compactCommand())
	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerEnv bundles the backends a command needs plus their teardown.
type runnerEnv struct {
	Runner *layouts.Runner
	Store  dashboard.Store
	close  []func()
}

// Close releases all backends in reverse open order.
func (e *runnerEnv) Close() {
	for i := len(e.close) - 1; i >= 0; i-- {
		e.close[i]()
	}
}

// newRunner opens the configured store and cache and wraps them in a
// layout runner. With noCache the derivation cache is disabled entirely.
func (c *CLI) newRunner(ctx context.Context, cfg *Config, noCache bool) (*runnerEnv, error) {
	env := &runnerEnv{}

	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	env.Store = store
	env.close = append(env.close, func() { _ = store.Close(context.Background()) })

	var layoutCache cache.Cache
	if noCache {
		layoutCache = cache.NewNullCache()
	} else {
		layoutCache, err = cfg.OpenCache(ctx)
		if err != nil {
			env.Close()
			return nil, err
		}
	}
	env.close = append(env.close, func() { _ = layoutCache.Close() })

	env.Runner = layouts.NewRunner(store, layoutCache, nil, c.Logger)
	return env, nil
}

// loadConfig reads the config file selected by --config, falling back to
// defaults when none exists.
func (c *CLI) loadConfig() (*Config, error) {
	return LoadConfig(c.ConfigPath)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stacklume/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/stacklume/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/stacklume/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
