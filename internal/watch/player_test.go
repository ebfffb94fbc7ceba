package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviestream-ai/moviestream/internal/history"
	"github.com/moviestream-ai/moviestream/internal/media"
)

type fakeCatalog struct {
	movie       *media.Movie
	show        *media.TVShowDetails
	episodes    map[int][]media.Episode
	err         error
	seasonCalls []int
	// gate, when set, blocks Movie until it is closed.
	gate chan struct{}
}

func (f *fakeCatalog) Movie(_ context.Context, id int) (*media.Movie, error) {
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.movie, nil
}

func (f *fakeCatalog) TVShow(_ context.Context, id int) (*media.TVShowDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.show, nil
}

func (f *fakeCatalog) Season(_ context.Context, tvID, season int) (*media.SeasonDetails, error) {
	f.seasonCalls = append(f.seasonCalls, season)
	return &media.SeasonDetails{SeasonNumber: season, Episodes: f.episodes[season]}, nil
}

type fakeRecorder struct {
	entries []history.Entry
}

func (f *fakeRecorder) Record(_ context.Context, e history.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

func episodes(n int) []media.Episode {
	out := make([]media.Episode, n)
	for i := range out {
		out[i] = media.Episode{EpisodeNumber: i + 1}
	}
	return out
}

func showWithSeasons(numbers ...int) *media.TVShowDetails {
	show := &media.TVShowDetails{
		TVShow: media.TVShow{Summary: media.Summary{ID: 1399, PosterPath: "/got.jpg", VoteAverage: 8.4}, Name: "Game of Thrones"},
	}
	for _, n := range numbers {
		show.Seasons = append(show.Seasons, media.Season{SeasonNumber: n, EpisodeCount: 10})
	}
	return show
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name    string
		kind    media.Kind
		season  int
		episode int
		want    string
	}{
		{name: "movie", kind: media.KindMovie, want: "https://vidsrc.to/embed/movie/42"},
		{name: "tv", kind: media.KindTV, season: 2, episode: 5, want: "https://vidsrc.to/embed/tv/42?s=2&e=5"},
		{name: "tv without season", kind: media.KindTV, want: "https://vidsrc.to/embed/tv/42"},
		{name: "tv without episode", kind: media.KindTV, season: 3, want: "https://vidsrc.to/embed/tv/42?s=3&e=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmbedURL("", tt.kind, 42, tt.season, tt.episode))
		})
	}

	assert.Equal(t, "http://player.test/movie/1", EmbedURL("http://player.test", media.KindMovie, 1, 0, 0))
}

func TestLoadTVDefaultsToFirstRegularSeason(t *testing.T) {
	catalog := &fakeCatalog{
		show:     showWithSeasons(0, 1, 2, 3),
		episodes: map[int][]media.Episode{1: episodes(10)},
	}
	recorder := &fakeRecorder{}

	p := NewPlayer(1399, media.KindTV, catalog, recorder, "")
	require.NoError(t, p.Load(context.Background()))

	st := p.State()
	assert.True(t, st.Loaded)
	assert.Equal(t, "Game of Thrones", st.Title)
	assert.Equal(t, 1, st.Season)
	assert.Equal(t, 1, st.Episode)
	assert.True(t, st.HasSeason)
	assert.Len(t, st.Seasons, 3)
	assert.Len(t, st.Episodes, 10)
	assert.Equal(t, []int{1}, catalog.seasonCalls)
	assert.Equal(t, "https://vidsrc.to/embed/tv/1399?s=1&e=1", st.EmbedURL)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, history.Entry{ID: 1399, IsTV: true, Title: "Game of Thrones", PosterPath: "/got.jpg", VoteAverage: 8.4}, recorder.entries[0])
}

func TestLoadTVSeasonOrderFollowsListing(t *testing.T) {
	catalog := &fakeCatalog{show: showWithSeasons(0, 3, 1)}
	p := NewPlayer(1, media.KindTV, catalog, nil, "")
	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t, 3, p.State().Season)
}

func TestLoadSpecialsOnlyShow(t *testing.T) {
	catalog := &fakeCatalog{show: showWithSeasons(0)}
	recorder := &fakeRecorder{}

	p := NewPlayer(1399, media.KindTV, catalog, recorder, "")
	require.NoError(t, p.Load(context.Background()))

	st := p.State()
	assert.False(t, st.HasSeason)
	assert.Zero(t, st.Season)
	assert.Zero(t, st.Episode)
	assert.Empty(t, st.Seasons)
	assert.Empty(t, catalog.seasonCalls)
	assert.Equal(t, "https://vidsrc.to/embed/tv/1399", st.EmbedURL)
	assert.Len(t, recorder.entries, 1)

	assert.ErrorIs(t, p.SelectSeason(context.Background(), 0), ErrUnknownSeason)
}

func TestSelectSeasonRefetchesAndResetsEpisode(t *testing.T) {
	catalog := &fakeCatalog{
		show:     showWithSeasons(1, 2),
		episodes: map[int][]media.Episode{1: episodes(8), 2: episodes(6)},
	}
	p := NewPlayer(7, media.KindTV, catalog, nil, "")
	ctx := context.Background()
	require.NoError(t, p.Load(ctx))

	require.NoError(t, p.SelectEpisode(5))
	assert.Equal(t, "https://vidsrc.to/embed/tv/7?s=1&e=5", p.State().EmbedURL)

	require.NoError(t, p.SelectSeason(ctx, 2))
	st := p.State()
	assert.Equal(t, 2, st.Season)
	assert.Equal(t, 1, st.Episode)
	assert.Len(t, st.Episodes, 6)
	assert.Equal(t, []int{1, 2}, catalog.seasonCalls)
	assert.Equal(t, "https://vidsrc.to/embed/tv/7?s=2&e=1", st.EmbedURL)

	assert.ErrorIs(t, p.SelectEpisode(7), ErrUnknownEpisode)
	assert.ErrorIs(t, p.SelectSeason(ctx, 9), ErrUnknownSeason)
	assert.Equal(t, 2, p.State().Season)
}

func TestLoadMovie(t *testing.T) {
	catalog := &fakeCatalog{movie: &media.Movie{Summary: media.Summary{ID: 603, Overview: "o"}, Title: "The Matrix"}}
	recorder := &fakeRecorder{}

	p := NewPlayer(603, media.KindMovie, catalog, recorder, "")
	require.NoError(t, p.Load(context.Background()))

	st := p.State()
	assert.Equal(t, "The Matrix", st.Title)
	assert.Equal(t, "https://vidsrc.to/embed/movie/603", st.EmbedURL)
	assert.Equal(t, []history.Entry{{ID: 603, Title: "The Matrix", Overview: "o"}}, recorder.entries)

	assert.ErrorIs(t, p.SelectSeason(context.Background(), 1), ErrNotTV)
	assert.ErrorIs(t, p.SelectEpisode(1), ErrNotTV)
}

func TestLoadFailureKeepsDefaults(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("catalog down")}
	recorder := &fakeRecorder{}

	p := NewPlayer(5, media.KindTV, catalog, recorder, "")
	assert.Error(t, p.Load(context.Background()))

	st := p.State()
	assert.False(t, st.Loaded)
	assert.Empty(t, st.Title)
	assert.Equal(t, "https://vidsrc.to/embed/tv/5?s=1&e=1", st.EmbedURL)
	assert.Empty(t, recorder.entries)
	assert.ErrorIs(t, p.SelectSeason(context.Background(), 1), ErrDetailsNotReady)
}

func TestTitleFallbacks(t *testing.T) {
	p := NewPlayer(1, media.KindMovie, &fakeCatalog{movie: &media.Movie{}}, nil, "")
	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t, "Movie", p.State().Title)

	show := showWithSeasons()
	show.Name = ""
	p = NewPlayer(1, media.KindTV, &fakeCatalog{show: show}, nil, "")
	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t, "TV Show", p.State().Title)
}

func TestStateDoesNotWaitForCatalog(t *testing.T) {
	gate := make(chan struct{})
	catalog := &fakeCatalog{movie: &media.Movie{Summary: media.Summary{ID: 27205}, Title: "Inception"}, gate: gate}
	p := NewPlayer(27205, media.KindMovie, catalog, nil, "https://embed.example/embed")

	loaded := make(chan error, 1)
	go func() { loaded <- p.Load(context.Background()) }()

	states := make(chan State, 1)
	go func() { states <- p.State() }()

	select {
	case st := <-states:
		assert.False(t, st.Loaded)
	case <-time.After(time.Second):
		t.Fatal("State blocked while the movie fetch was in flight")
	}

	close(gate)
	require.NoError(t, <-loaded)
	assert.Equal(t, "Inception", p.State().Title)
}
