package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/moviestream-ai/moviestream/internal/carousel"
	"github.com/moviestream-ai/moviestream/internal/events"
	"github.com/moviestream-ai/moviestream/internal/handlers"
	"github.com/moviestream-ai/moviestream/internal/scheduler"
	"github.com/moviestream-ai/moviestream/internal/view"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Starts the moviestream JSON API.

Viewers open a session, then navigate, filter, search and open titles
through the session endpoints. Changes are streamed over server-sent
events on /events. The hero carousel rotates on its own and is refreshed
from today's trending movies on a schedule.`,
		Example: `  # Start server on the configured port (8888 by default)
  moviestream serve

  # Start server on custom port
  moviestream serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			ctx := cmd.Context()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			broker := events.NewBroker()

			hero := carousel.New(cfg.Hero.Interval)
			registry := view.NewRegistry(a.loader(), a.defs, a.player)
			handler := handlers.New(handlers.Deps{
				Sessions: registry,
				Hero:     hero,
				Genie:    a.genie,
				History:  a.history,
				Browse:   a.defs,
				Broker:   broker,
			})

			sched := scheduler.New(0)
			heroJob := scheduler.NewHeroRefreshJob(a.catalog, hero)
			if err := sched.AddJob(cfg.Hero.RefreshSchedule, heroJob); err != nil {
				return err
			}
			pruneJob := scheduler.NewSessionPruneJob(registry, cfg.Server.SessionIdleTTL, func(id string) {
				broker.RemoveStream(events.SessionStream(id))
			})
			if err := sched.AddJob(cfg.Server.PruneSchedule, pruneJob); err != nil {
				return err
			}
			if err := sched.RunJobNow(ctx, heroJob.Name()); err != nil {
				slog.Warn("Hero carousel starts empty", "err", err)
			}
			sched.Start()
			defer sched.Stop()

			go hero.Run(ctx)

			addr := cfg.Server.Addr()
			server := &http.Server{
				Addr: addr,
				Handler: handler.Router(handlers.RouterOptions{
					CORSOrigins: cfg.Server.CORSOrigins,
					RateLimit:   cfg.Server.RateLimit,
					RateWindow:  cfg.Server.RateWindow,
				}),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("moviestream API available", "addr", addr, "url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				// Event streams stay open until the broker closes them.
				broker.Close()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				broker.Close()
				return err
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8888, "Port to listen on")

	return cmd
}
