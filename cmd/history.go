package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the continue-watching list",
	}

	cmd.AddCommand(newHistoryListCmd(opts))
	cmd.AddCommand(newHistoryClearCmd(opts))
	cmd.AddCommand(newHistoryExportCmd(opts))
	cmd.AddCommand(newHistoryImportCmd(opts))

	return cmd
}

func newHistoryListCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show continue watching, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.history.List(ctx)
			return writeOutput(cmd.OutOrStdout(), format, entries, func(w io.Writer) {
				if len(entries) == 0 {
					fmt.Fprintln(w, "Continue watching is empty")
					return
				}
				for _, e := range entries {
					fmt.Fprintf(w, "%-8d %-5s %4.1f  %s\n", e.ID, e.Kind(), e.VoteAverage, e.Title)
				}
			})
		},
	}
	addOutputFlag(cmd, &format)

	return cmd
}

func newHistoryClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every continue-watching entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.history.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Continue watching cleared")
			return nil
		},
	}
}

func newHistoryExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "export <file.parquet>",
		Short:   "Write continue watching to a Parquet file",
		Example: `  moviestream history export watching.parquet`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			n, err := a.history.Export(ctx, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}
}

func newHistoryImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.parquet>",
		Short: "Replace continue watching with a Parquet export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			n, err := a.history.Import(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %s\n", n, args[0])
			return nil
		},
	}
}
