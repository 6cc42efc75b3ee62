package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soyeahso/scoredeck/internal/config"
	"github.com/soyeahso/scoredeck/internal/dashboard"
	"github.com/soyeahso/scoredeck/internal/logging"
	"github.com/soyeahso/scoredeck/internal/store"
)

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Manage the scoredeck dashboard server",
	}

	cmd.AddCommand(newDashboardRunCmd())
	return cmd
}

func newDashboardRunCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Dashboard.Port = port
			}
			if bind != "" {
				cfg.Dashboard.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			// The server honors the configured log style/file; the
			// --log-level flag still wins on level.
			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			log, err = logging.NewFromOptions(level, cfg.Logging.ConsoleStyle, cfg.Logging.File)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Evaluation history store (SQLite or in-memory)
			var history store.History
			if cfg.History.Store == "sqlite" {
				dbPath := filepath.Join(paths.Data, "scoredeck.db")
				db, err := store.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				history = store.NewSQLiteHistory(db)
				log.Info().Str("path", dbPath).Msg("using SQLite history store")
			} else {
				history = store.NewMemoryHistory()
				log.Info().Msg("using in-memory history store")
			}

			invoker, cleanup, err := buildInvoker(ctx, cfg)
			if err != nil {
				return fmt.Errorf("building agent client: %w", err)
			}
			defer cleanup()

			srv := dashboard.New(cfg, invoker, history, log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override dashboard port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (auto, lan, loopback, custom)")

	return cmd
}
