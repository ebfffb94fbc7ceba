package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/moviestream-ai/moviestream/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "moviestream",
		Short: "Movie and TV discovery backed by TMDB with AI recommendations",
		Long: `moviestream browses the TMDB catalog, keeps a continue-watching list and
asks a language model for recommendations from a free-text description.

It serves a JSON API with live session updates and offers the same
operations on the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			slog.SetDefault(config.NewLogger(os.Stderr, cfg.Logging))
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newBrowseCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newGenieCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))

	return cmd
}
