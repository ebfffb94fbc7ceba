package tmdb

import (
	"github.com/moviestream-ai/moviestream/internal/media"
)

// rawItem is the union of movie, TV and person fields as the API sends them.
type rawItem struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`

	// Only present on TV detail records.
	Seasons []media.Season `json:"seasons"`
}

type rawPage struct {
	Page         int       `json:"page"`
	Results      []rawItem `json:"results"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
}

func (r rawItem) summary() media.Summary {
	return media.Summary{
		ID:           r.ID,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		Overview:     r.Overview,
		VoteAverage:  r.VoteAverage,
	}
}

func (r rawItem) movie() media.Movie {
	return media.Movie{Summary: r.summary(), Title: r.Title, ReleaseDate: r.ReleaseDate}
}

func (r rawItem) tvShow() media.TVShow {
	return media.TVShow{Summary: r.summary(), Name: r.Name, FirstAirDate: r.FirstAirDate}
}

// kind decides the variant of a listing entry. An explicit media_type wins;
// without one the endpoint's kind applies, then the title/name fields.
// Entries that are neither movies nor shows report false.
func (r rawItem) kind(fallback media.Kind) (media.Kind, bool) {
	switch r.MediaType {
	case string(media.KindMovie):
		return media.KindMovie, true
	case string(media.KindTV):
		return media.KindTV, true
	case "":
	default:
		return "", false
	}

	if fallback != "" {
		return fallback, true
	}
	switch {
	case r.Title != "":
		return media.KindMovie, true
	case r.Name != "":
		return media.KindTV, true
	}
	return "", false
}

func (r rawItem) item(fallback media.Kind) (media.Item, bool) {
	kind, ok := r.kind(fallback)
	if !ok {
		return nil, false
	}
	if kind == media.KindTV {
		return r.tvShow(), true
	}
	return r.movie(), true
}

func (p rawPage) toPage(fallback media.Kind) *media.ResultPage {
	page := &media.ResultPage{
		Page:         p.Page,
		Results:      make([]media.Item, 0, len(p.Results)),
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
	for _, raw := range p.Results {
		if item, ok := raw.item(fallback); ok {
			page.Results = append(page.Results, item)
		}
	}
	return page
}
