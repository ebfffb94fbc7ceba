package view

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/moviestream-ai/moviestream/internal/browse"
	"github.com/moviestream-ai/moviestream/internal/history"
	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/tmdb"
)

// RailSize is the number of items shown per home rail.
const RailSize = 12

const (
	SectionContinueWatching = "continue_watching"
	SectionTrending         = "trending"
	SectionNewReleases      = "new_releases"
	SectionSearch           = "search"
)

// Catalog is the subset of the catalog client used to fill pages.
type Catalog interface {
	Trending(ctx context.Context, mediaType tmdb.TrendingType, window tmdb.TimeWindow) (*media.ResultPage, error)
	Movies(ctx context.Context, endpoint string) (*media.ResultPage, error)
	TVShows(ctx context.Context, endpoint string) (*media.ResultPage, error)
	MoviesByGenre(ctx context.Context, genreID int) (*media.ResultPage, error)
	SearchMulti(ctx context.Context, query string) (*media.ResultPage, error)
}

type ContinueWatching interface {
	List(ctx context.Context) []history.Entry
}

// Section is one titled grid or rail of items.
type Section struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Subtitle     string          `json:"subtitle,omitempty"`
	Items        []media.Item    `json:"items"`
	Filters      []browse.Filter `json:"filters,omitempty"`
	ActiveFilter string          `json:"active_filter,omitempty"`
}

// Content is what a fetch produced, tagged with the generation it was
// requested for.
type Content struct {
	Kind       FetchKind `json:"kind"`
	Generation uint64    `json:"generation"`
	Sections   []Section `json:"sections"`
}

func (c Content) Section(id string) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Loader runs content fetches against the catalog. Failures are logged and
// produce empty sections.
type Loader struct {
	catalog Catalog
	history ContinueWatching
	defs    *browse.Catalog
}

func NewLoader(catalog Catalog, history ContinueWatching, defs *browse.Catalog) *Loader {
	return &Loader{
		catalog: catalog,
		history: history,
		defs:    defs,
	}
}

func (l *Loader) Load(ctx context.Context, f Fetch) Content {
	content := Content{Kind: f.Kind, Generation: f.Generation}

	switch f.Kind {
	case FetchHome:
		content.Sections = l.home(ctx)
	case FetchPage:
		content.Sections = []Section{l.page(ctx, f.Page, f.Filter)}
	case FetchSearch:
		content.Sections = []Section{l.search(ctx, f.Query)}
	}
	return content
}

// home loads the three home rails concurrently and returns them together.
// If any lookup fails every rail is empty.
func (l *Loader) home(ctx context.Context) []Section {
	var trending, releases *media.ResultPage
	var watching []history.Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := l.catalog.Trending(gctx, tmdb.TrendingAll, tmdb.Week)
		trending = page
		return err
	})
	g.Go(func() error {
		page, err := l.catalog.Movies(gctx, "upcoming")
		releases = page
		return err
	})
	g.Go(func() error {
		watching = l.history.List(gctx)
		return nil
	})

	trendingSection := Section{ID: SectionTrending, Title: "Trending Now", Subtitle: "The hottest movies & shows this week", Items: []media.Item{}}
	releasesSection := Section{ID: SectionNewReleases, Title: "New Releases", Subtitle: "Fresh content just added", Items: []media.Item{}}

	if err := g.Wait(); err != nil {
		slog.Error("Unable to fetch home content", "err", err)
		return []Section{trendingSection, releasesSection}
	}

	trendingSection.Items = media.Truncate(trending.Results, RailSize)
	releasesSection.Items = media.Truncate(releases.Results, RailSize)

	sections := make([]Section, 0, 3)
	if len(watching) > 0 {
		items := make([]media.Item, 0, min(len(watching), RailSize))
		for _, e := range watching[:min(len(watching), RailSize)] {
			items = append(items, e.Item())
		}
		sections = append(sections, Section{
			ID:       SectionContinueWatching,
			Title:    "Continue Watching",
			Subtitle: "Pick up where you left off",
			Items:    items,
		})
	}
	return append(sections, trendingSection, releasesSection)
}

func (l *Loader) page(ctx context.Context, page Page, filter string) Section {
	section := Section{ID: string(page), Items: []media.Item{}, ActiveFilter: filter}
	if def, ok := l.defs.Lookup(string(page)); ok {
		section.Title = def.Title
		section.Filters = def.Filters
	}

	var result *media.ResultPage
	var err error
	switch page {
	case PageMovies:
		result, err = l.catalog.Movies(ctx, filter)
	case PageTV:
		result, err = l.catalog.TVShows(ctx, filter)
	case PageGenres:
		result, err = l.catalog.MoviesByGenre(ctx, l.defs.GenreID(filter))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	if err != nil {
		slog.Error("Unable to fetch page content", "page", page, "filter", filter, "err", err)
		return section
	}

	section.Items = result.Results
	return section
}

func (l *Loader) search(ctx context.Context, query string) Section {
	section := Section{
		ID:    SectionSearch,
		Title: fmt.Sprintf("Search results for %q", query),
		Items: []media.Item{},
	}

	result, err := l.catalog.SearchMulti(ctx, query)
	if err != nil {
		slog.Error("Unable to search catalog", "query", query, "err", err)
		return section
	}
	section.Items = result.Results
	return section
}
