package browse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDefinitions(t *testing.T) {
	c := Default()

	movies, ok := c.Lookup("movies")
	require.True(t, ok)
	assert.Equal(t, "Top Movies", movies.Title)
	assert.Equal(t, "top_rated", movies.DefaultFilter)
	assert.True(t, movies.HasFilter("upcoming"))
	assert.False(t, movies.HasFilter("on_the_air"))

	tv, ok := c.Lookup("tv")
	require.True(t, ok)
	assert.Equal(t, []Filter{{Label: "Popular", Value: "popular"}, {Label: "Top Rated", Value: "top_rated"}}, tv.Filters)

	genres, ok := c.Lookup("genres")
	require.True(t, ok)
	assert.Len(t, genres.Filters, 8)

	_, ok = c.Lookup("home")
	assert.False(t, ok)
}

func TestGenreID(t *testing.T) {
	c := Default()

	tests := map[string]int{
		"action":    28,
		"comedy":    35,
		"drama":     18,
		"horror":    27,
		"sci-fi":    878,
		"romance":   10749,
		"thriller":  53,
		"animation": 16,
		"top_rated": 28,
		"":          28,
	}
	for key, want := range tests {
		assert.Equal(t, want, c.GenreID(key), key)
	}
}

func TestParseRejectsBadDefault(t *testing.T) {
	_, err := Parse([]byte(`
pages:
  - id: movies
    default_filter: latest
    filters:
      - { label: Popular, value: popular }
`))
	assert.ErrorContains(t, err, "default filter")

	_, err = Parse([]byte(`pages: []`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pages:
  - id: tv
    title: Shows
    default_filter: popular
    filters:
      - { label: Popular, value: popular }
genres: {}
fallback_genre: 35
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	page, ok := c.Lookup("tv")
	require.True(t, ok)
	assert.Equal(t, "Shows", page.Title)
	assert.Equal(t, 35, c.GenreID("action"))
}
