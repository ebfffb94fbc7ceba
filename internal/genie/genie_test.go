package genie

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/providers"
)

type fakeProvider struct {
	text   string
	err    error
	prompt string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) ExtractText(_ context.Context, config providers.Config) (string, error) {
	f.prompt = config.Prompt
	return f.text, f.err
}

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	results map[string][]media.Item
	err     error
}

func (f *fakeSearcher) SearchMulti(_ context.Context, query string) (*media.ResultPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return &media.ResultPage{Page: 1, Results: f.results[query]}, nil
}

func movie(id int, title, poster string) media.Movie {
	return media.Movie{Summary: media.Summary{ID: id, PosterPath: poster}, Title: title}
}

func TestSuggestWithoutCredentialReturnsMock(t *testing.T) {
	s := New(nil, &fakeSearcher{}, Options{})
	assert.True(t, s.UsesMock())

	for _, prompt := range []string{"anything", "", "a film about dreams"} {
		got, err := s.Suggest(context.Background(), prompt)
		require.NoError(t, err)
		assert.Equal(t, []media.Suggestion{
			{Title: "Inception", Year: 2010},
			{Title: "The Matrix", Year: 1999},
			{Title: "Blade Runner 2049", Year: 2017},
		}, got)
	}
}

func TestSuggestParsesProviderOutput(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []media.Suggestion
	}{
		{
			name: "plain array",
			text: `[{"title":"Alien","year":1979}]`,
			want: []media.Suggestion{{Title: "Alien", Year: 1979}},
		},
		{
			name: "fenced",
			text: "```json\n[{\"title\":\"Heat\",\"year\":1995}]\n```",
			want: []media.Suggestion{{Title: "Heat", Year: 1995}},
		},
		{
			name: "caps at three",
			text: `[{"title":"A","year":1},{"title":"B","year":2},{"title":"C","year":3},{"title":"D","year":4}]`,
			want: []media.Suggestion{{Title: "A", Year: 1}, {Title: "B", Year: 2}, {Title: "C", Year: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{text: tt.text}
			got, err := New(p, &fakeSearcher{}, Options{}).Suggest(context.Background(), "space horror")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, p.prompt, `"space horror"`)
		})
	}
}

func TestSuggestFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{name: "transport", provider: &fakeProvider{err: errors.New("connection reset")}},
		{name: "no array", provider: &fakeProvider{text: "I cannot help with that."}},
		{name: "bad json", provider: &fakeProvider{text: `[{"title": 12}]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.provider, &fakeSearcher{}, Options{}).Suggest(context.Background(), "x")
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestResolveKeepsOrderAndDropsUnmatched(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]media.Item{
		"Inception year:2010": {
			media.TVShow{Summary: media.Summary{ID: 90, PosterPath: "/tv.jpg"}, Name: "Inception: The Series"},
			movie(1, "Inception", ""),
			movie(2, "Inception", "/inception.jpg"),
		},
		"The Matrix year:1999": {},
		"Blade Runner 2049 year:2017": {
			movie(3, "Blade Runner 2049", "/br.jpg"),
		},
	}}

	got, err := New(nil, searcher, Options{}).Resolve(context.Background(), MockSuggestions())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
	assert.ElementsMatch(t, []string{"Inception year:2010", "The Matrix year:1999", "Blade Runner 2049 year:2017"}, searcher.queries)
}

func TestResolveFailsOnSearchError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("catalog down")}
	_, err := New(nil, searcher, Options{}).Resolve(context.Background(), MockSuggestions())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRecommend(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]media.Item{
		"The Matrix year:1999": {movie(603, "The Matrix", "/m.jpg")},
	}}
	s := New(nil, searcher, Options{})

	got, err := s.Recommend(context.Background(), "  hackers  ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 603, got[0].ID)

	got, err = s.Recommend(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("heist with a twist")
	assert.True(t, strings.HasSuffix(prompt, `"heist with a twist"`))
	assert.Contains(t, prompt, "3 real movies")
}
