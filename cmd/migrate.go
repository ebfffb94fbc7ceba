package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/moviestream-ai/moviestream/internal/storage"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQLite schema",
		Long: `Applies or rolls back the embedded schema migrations of the sqlite
storage driver. The server applies pending migrations on start.`,
	}

	run := func(use, short string, fn func(ctx context.Context, cmd *cobra.Command, m *storage.Migrator) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := opts.cfg
				if cfg.Storage.Driver != storage.DriverSQLite {
					return errors.New("migrations apply to the sqlite storage driver only")
				}
				ctx := cmd.Context()
				db, err := storage.ConnectSQLite(ctx, cfg.Storage.Path)
				if err != nil {
					return err
				}
				defer func() {
					if err := db.Close(); err != nil {
						slog.Error("Unable to close database", "err", err)
					}
				}()
				return fn(ctx, cmd, storage.NewMigrator(db.DB))
			},
		}
	}

	cmd.AddCommand(run("up", "Apply all pending migrations", func(ctx context.Context, cmd *cobra.Command, m *storage.Migrator) error {
		return m.Up(ctx)
	}))
	cmd.AddCommand(run("down", "Roll back the latest migration", func(ctx context.Context, cmd *cobra.Command, m *storage.Migrator) error {
		return m.Down(ctx)
	}))
	cmd.AddCommand(run("status", "Print the state of every migration", func(ctx context.Context, cmd *cobra.Command, m *storage.Migrator) error {
		return m.Status(ctx)
	}))
	cmd.AddCommand(run("version", "Print the current schema version", func(ctx context.Context, cmd *cobra.Command, m *storage.Migrator) error {
		v, err := m.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}))

	return cmd
}
