package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moviestream-ai/moviestream/internal/view"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var filter, format string

	cmd := &cobra.Command{
		Use:   "browse [home|movies|tv|genres]",
		Short: "List the content of a page",
		Long: `Loads a page the same way the API does and prints its sections.

Without a page the home rails are shown. --filter picks one of the page's
filters (see "moviestream browse movies --help" for the defaults).`,
		Example: `  moviestream browse
  moviestream browse movies --filter upcoming
  moviestream browse genres --filter horror -o json`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"home", "movies", "tv", "genres"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			page := view.PageHome
			if len(args) == 1 {
				page = view.Page(args[0])
			}

			session := view.NewSession("cli", a.loader(), a.defs, a.player)
			var snap view.Snapshot
			if page == view.PageHome {
				snap = session.Start(ctx)
			} else if snap, err = session.Dispatch(ctx, view.Navigate{Page: page}); err != nil {
				return err
			}
			if filter != "" {
				if snap, err = session.Dispatch(ctx, view.ChangeFilter{Page: page, Filter: filter}); err != nil {
					return err
				}
			}

			return writeOutput(cmd.OutOrStdout(), format, snap.Content, func(w io.Writer) {
				printContent(w, snap.Content)
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Page filter (e.g. popular, top_rated, action)")
	addOutputFlag(cmd, &format)

	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Search movies and TV shows",
		Example: `  moviestream search "breaking bad"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			session := view.NewSession("cli", a.loader(), a.defs, a.player)
			snap, err := session.Dispatch(ctx, view.Search{Query: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, snap.Content, func(w io.Writer) {
				printContent(w, snap.Content)
			})
		},
	}
	addOutputFlag(cmd, &format)

	return cmd
}

func printContent(w io.Writer, content view.Content) {
	for i, section := range content.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, section.Title)
		if section.Subtitle != "" {
			fmt.Fprintf(w, "  %s\n", section.Subtitle)
		}
		if len(section.Filters) > 0 {
			values := make([]string, 0, len(section.Filters))
			for _, f := range section.Filters {
				v := f.Value
				if v == section.ActiveFilter {
					v = "[" + v + "]"
				}
				values = append(values, v)
			}
			fmt.Fprintf(w, "  filters: %s\n", strings.Join(values, " "))
		}
		printItems(w, section.Items)
	}
}
