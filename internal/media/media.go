package media

import (
	"fmt"

	json "github.com/goccy/go-json"
)

const (
	imageBaseURL = "https://image.tmdb.org/t/p"
	posterSize   = "w500"
	backdropSize = "w1280"
)

// Kind tags a catalog entry as a movie or a TV show.
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// ParseKind converts a wire value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindMovie, KindTV:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

// Summary holds the fields shared by movies and TV shows.
type Summary struct {
	ID           int     `json:"id"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
}

// Item is either a Movie or a TVShow. The variant is fixed when the item is
// decoded from the catalog.
type Item interface {
	Kind() Kind
	Info() Summary
	DisplayTitle() string
	isItem()
}

type Movie struct {
	Summary
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"`
}

func (Movie) Kind() Kind { return KindMovie }
func (m Movie) Info() Summary { return m.Summary }
func (m Movie) DisplayTitle() string { return m.Title }
func (Movie) isItem() {}

func (m Movie) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Summary
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date,omitempty"`
		MediaType   Kind   `json:"media_type"`
	}{m.Summary, m.Title, m.ReleaseDate, KindMovie})
}

type TVShow struct {
	Summary
	Name         string `json:"name"`
	FirstAirDate string `json:"first_air_date,omitempty"`
}

func (TVShow) Kind() Kind { return KindTV }
func (s TVShow) Info() Summary { return s.Summary }
func (s TVShow) DisplayTitle() string { return s.Name }
func (TVShow) isItem() {}

func (s TVShow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Summary
		Name         string `json:"name"`
		FirstAirDate string `json:"first_air_date,omitempty"`
		MediaType    Kind   `json:"media_type"`
	}{s.Summary, s.Name, s.FirstAirDate, KindTV})
}

// Season is a season listing entry on a TV show detail record.
type Season struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name,omitempty"`
}

type Episode struct {
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name,omitempty"`
}

type TVShowDetails struct {
	TVShow
	Seasons []Season `json:"seasons"`
}

// MarshalJSON keeps the season listing, which the promoted TVShow encoder would drop.
func (d TVShowDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Summary
		Name         string   `json:"name"`
		FirstAirDate string   `json:"first_air_date,omitempty"`
		MediaType    Kind     `json:"media_type"`
		Seasons      []Season `json:"seasons"`
	}{d.Summary, d.Name, d.FirstAirDate, KindTV, d.Seasons})
}

type SeasonDetails struct {
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

// ResultPage is one page of a paginated catalog listing.
type ResultPage struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// Suggestion is a title/year pair proposed by the suggestion service.
type Suggestion struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// Truncate returns at most n items.
func Truncate(items []Item, n int) []Item {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + posterSize + path
}

func BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + backdropSize + path
}
