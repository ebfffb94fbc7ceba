package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/view"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var season, episode int
	var format string

	cmd := &cobra.Command{
		Use:   "watch <movie|tv> <id>",
		Short: "Resolve the player URL for a title",
		Long: `Loads a title's details, adds it to continue watching and prints the
embedded player URL. TV shows default to the first regular season and
episode 1.`,
		Example: `  moviestream watch movie 27205
  moviestream watch tv 1396 --season 2 --episode 5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := media.ParseKind(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			player := a.player(view.Selection{ID: id, Kind: kind})
			if err := player.Load(ctx); err != nil {
				return err
			}
			if season > 0 {
				if err := player.SelectSeason(ctx, season); err != nil {
					return err
				}
			}
			if episode > 0 {
				if err := player.SelectEpisode(episode); err != nil {
					return err
				}
			}

			state := player.State()
			return writeOutput(cmd.OutOrStdout(), format, state, func(w io.Writer) {
				fmt.Fprintln(w, state.Title)
				if state.HasSeason {
					fmt.Fprintf(w, "  season %d, episode %d\n", state.Season, state.Episode)
				}
				fmt.Fprintln(w, state.EmbedURL)
			})
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season number (TV only)")
	cmd.Flags().IntVar(&episode, "episode", 0, "Episode number (TV only)")
	addOutputFlag(cmd, &format)

	return cmd
}
