package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklume/stacklume/internal/server"
)

// serveCommand creates the serve command that runs the API server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		port   int
		noAuth bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Stacklume API server",
		Long: `Run the Stacklume API server.

The server exposes dashboards and their derived breakpoint layouts over
HTTP. Persistence, caching, and session backends come from stacklume.toml;
the file-based defaults need no configuration at all.

With --no-auth every request runs as the local user. Only use this on a
trusted network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, port, noAuth)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&noAuth, "no-auth", false, "disable authentication")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, port int, noAuth bool) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if noAuth {
		cfg.Server.NoAuth = true
	}

	if !cfg.Server.NoAuth {
		if cfg.Server.Username == "" || cfg.Server.Password == "" {
			return fmt.Errorf("authentication enabled but no credentials configured: set [server] username and password in stacklume.toml, or pass --no-auth")
		}
		if cfg.Server.SessionSecret == "" {
			return fmt.Errorf("authentication enabled but [server] session_secret is not set")
		}
	}

	p := newProgress(c.Logger)
	env, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("initialize backends: %w", err)
	}
	defer env.Close()

	sessions, states, err := cfg.OpenSessions(ctx)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	p.done("Backends ready")

	srv := server.New(server.Config{
		Runner:          env.Runner,
		Store:           env.Store,
		Sessions:        sessions,
		States:          states,
		Port:            cfg.Server.Port,
		SessionSecret:   cfg.Server.SessionSecret,
		NoAuth:          cfg.Server.NoAuth,
		Username:        cfg.Server.Username,
		Password:        cfg.Server.Password,
		SecureCookies:   cfg.Server.SecureCookies,
		Logger:          c.Logger,
		CleanupInterval: cfg.CleanupInterval(),
	})

	return srv.Serve(ctx)
}
