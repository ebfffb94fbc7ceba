package media

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "movie", want: KindMovie},
		{in: "tv", want: KindTV},
		{in: "person", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemJSONCarriesMediaType(t *testing.T) {
	items := []Item{
		Movie{Summary: Summary{ID: 1, PosterPath: "/a.jpg"}, Title: "Heat"},
		TVShow{Summary: Summary{ID: 2}, Name: "Dark"},
	}

	data, err := json.Marshal(items)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "movie", decoded[0]["media_type"])
	assert.Equal(t, "Heat", decoded[0]["title"])
	assert.Equal(t, "/a.jpg", decoded[0]["poster_path"])
	assert.Equal(t, "tv", decoded[1]["media_type"])
	assert.Equal(t, "Dark", decoded[1]["name"])
}

func TestTVShowDetailsJSONKeepsSeasons(t *testing.T) {
	details := TVShowDetails{
		TVShow:  TVShow{Summary: Summary{ID: 9}, Name: "Dark"},
		Seasons: []Season{{SeasonNumber: 1, EpisodeCount: 10}},
	}

	data, err := json.Marshal(details)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"seasons":[{"season_number":1`)
	assert.Contains(t, string(data), `"media_type":"tv"`)
}

func TestTruncate(t *testing.T) {
	items := make([]Item, 15)
	for i := range items {
		items[i] = Movie{Summary: Summary{ID: i}}
	}

	assert.Len(t, Truncate(items, 12), 12)
	assert.Len(t, Truncate(items[:3], 12), 3)
	assert.Empty(t, Truncate(nil, 12))
}

func TestImageURLs(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", PosterURL("/p.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280/b.jpg", BackdropURL("/b.jpg"))
	assert.Empty(t, PosterURL(""))
}
