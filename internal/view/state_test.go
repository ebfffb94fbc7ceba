package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviestream-ai/moviestream/internal/browse"
	"github.com/moviestream-ai/moviestream/internal/media"
)

func TestReduceNavigate(t *testing.T) {
	defs := browse.Default()
	start := State{Page: PageHome, Query: "dune", Watch: &Selection{ID: 1, Kind: media.KindMovie}, Generation: 4}

	tests := []struct {
		page       Page
		wantFilter string
		wantFetch  Fetch
	}{
		{page: PageHome, wantFetch: Fetch{Kind: FetchHome, Page: PageHome, Generation: 5}},
		{page: PageMovies, wantFilter: "top_rated", wantFetch: Fetch{Kind: FetchPage, Page: PageMovies, Filter: "top_rated", Generation: 5}},
		{page: PageTV, wantFilter: "top_rated", wantFetch: Fetch{Kind: FetchPage, Page: PageTV, Filter: "top_rated", Generation: 5}},
		{page: PageGenres, wantFilter: "action", wantFetch: Fetch{Kind: FetchPage, Page: PageGenres, Filter: "action", Generation: 5}},
	}

	for _, tt := range tests {
		t.Run(string(tt.page), func(t *testing.T) {
			next, fetch, err := Reduce(start, Navigate{Page: tt.page}, defs)
			require.NoError(t, err)
			assert.Equal(t, State{Page: tt.page, Filter: tt.wantFilter, Generation: 5}, next)
			assert.Equal(t, tt.wantFetch, fetch)
		})
	}

	next, _, err := Reduce(start, Navigate{Page: "settings"}, defs)
	assert.ErrorIs(t, err, ErrUnknownPage)
	assert.Equal(t, start, next)
}

func TestReduceChangeFilter(t *testing.T) {
	defs := browse.Default()
	movies := State{Page: PageMovies, Filter: "top_rated", Generation: 2}

	next, fetch, err := Reduce(movies, ChangeFilter{Page: PageMovies, Filter: "upcoming"}, defs)
	require.NoError(t, err)
	assert.Equal(t, State{Page: PageMovies, Filter: "upcoming", Generation: 3}, next)
	assert.Equal(t, Fetch{Kind: FetchPage, Page: PageMovies, Filter: "upcoming", Generation: 3}, fetch)

	tests := []struct {
		name   string
		state  State
		action ChangeFilter
		want   error
	}{
		{name: "home", state: Initial(), action: ChangeFilter{Page: PageHome, Filter: "popular"}, want: ErrFilterNotSupported},
		{name: "unknown page", state: movies, action: ChangeFilter{Page: "people", Filter: "popular"}, want: ErrUnknownPage},
		{name: "inactive page", state: movies, action: ChangeFilter{Page: PageTV, Filter: "popular"}, want: ErrPageMismatch},
		{name: "unknown filter", state: movies, action: ChangeFilter{Page: PageMovies, Filter: "on_the_air"}, want: ErrUnknownFilter},
		{name: "search active", state: State{Page: PageHome, Query: "x"}, action: ChangeFilter{Page: PageMovies, Filter: "popular"}, want: ErrPageMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, fetch, err := Reduce(tt.state, tt.action, defs)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.state, next)
			assert.Equal(t, FetchNone, fetch.Kind)
		})
	}
}

func TestReduceSearchForcesHome(t *testing.T) {
	defs := browse.Default()

	for _, page := range []Page{PageHome, PageMovies, PageTV, PageGenres} {
		t.Run(string(page), func(t *testing.T) {
			start, _, err := Reduce(Initial(), Navigate{Page: page}, defs)
			require.NoError(t, err)

			next, fetch, err := Reduce(start, Search{Query: "  the bear "}, defs)
			require.NoError(t, err)
			assert.Equal(t, PageHome, next.Page)
			assert.Equal(t, "the bear", next.Query)
			assert.Empty(t, next.Filter)
			assert.Equal(t, Fetch{Kind: FetchSearch, Query: "the bear", Generation: next.Generation}, fetch)
		})
	}

	_, _, err := Reduce(Initial(), Search{Query: "   "}, defs)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestReduceWatchOverlay(t *testing.T) {
	defs := browse.Default()
	movies := State{Page: PageMovies, Filter: "popular", Generation: 3}

	opened, fetch, err := Reduce(movies, OpenWatch{ID: 42, Kind: media.KindTV}, defs)
	require.NoError(t, err)
	assert.Equal(t, FetchNone, fetch.Kind)
	assert.Equal(t, PageMovies, opened.Page)
	assert.Equal(t, "popular", opened.Filter)
	assert.Equal(t, uint64(3), opened.Generation)
	assert.Equal(t, &Selection{ID: 42, Kind: media.KindTV}, opened.Watch)

	closed, fetch, err := Reduce(opened, CloseWatch{}, defs)
	require.NoError(t, err)
	assert.Nil(t, closed.Watch)
	assert.Equal(t, FetchNone, fetch.Kind, "closing over a non-home page does not refetch")

	home := State{Page: PageHome, Watch: &Selection{ID: 1, Kind: media.KindMovie}, Generation: 7}
	closed, fetch, err = Reduce(home, CloseWatch{}, defs)
	require.NoError(t, err)
	assert.Equal(t, Fetch{Kind: FetchHome, Page: PageHome, Generation: 8}, fetch)
	assert.Equal(t, uint64(8), closed.Generation)

	searching := State{Page: PageHome, Query: "heat", Watch: &Selection{ID: 1, Kind: media.KindMovie}, Generation: 9}
	_, fetch, err = Reduce(searching, CloseWatch{}, defs)
	require.NoError(t, err)
	assert.Equal(t, Fetch{Kind: FetchSearch, Query: "heat", Generation: 10}, fetch)

	_, _, err = Reduce(movies, OpenWatch{ID: 0, Kind: media.KindMovie}, defs)
	assert.ErrorIs(t, err, ErrInvalidSelection)
	_, _, err = Reduce(movies, OpenWatch{ID: 1, Kind: "person"}, defs)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestFetchForPrecedence(t *testing.T) {
	assert.Equal(t, FetchSearch, FetchFor(State{Page: PageMovies, Filter: "popular", Query: "q"}).Kind)
	assert.Equal(t, FetchHome, FetchFor(Initial()).Kind)
	assert.Equal(t, FetchPage, FetchFor(State{Page: PageTV, Filter: "popular"}).Kind)
}
