package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moviestream-ai/moviestream/internal/genie"
	"github.com/moviestream-ai/moviestream/internal/media"
)

func newGenieCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "genie <description>",
		Short: "Recommend movies from a description",
		Long: `Asks the configured language model for up to three movies matching the
description and looks each one up in the catalog.

Without GEMINI_API_KEY (or OPENAI_API_KEY with genie.provider=openai) a
fixed sample list is used.`,
		Example: `  moviestream genie "a heist movie with a twist ending"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			movies, err := a.genie.Recommend(ctx, strings.Join(args, " "))
			if errors.Is(err, genie.ErrUnavailable) {
				fmt.Fprintln(cmd.ErrOrStderr(), genie.UnavailableMessage)
				return err
			}
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), format, movies, func(w io.Writer) {
				items := make([]media.Item, 0, len(movies))
				for _, m := range movies {
					items = append(items, m)
				}
				printItems(w, items)
			})
		},
	}
	addOutputFlag(cmd, &format)

	return cmd
}
