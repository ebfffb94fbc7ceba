package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/moviestream-ai/moviestream/internal/media"
)

// TrendingType selects the media family of a trending listing.
type TrendingType string

const (
	TrendingAll   TrendingType = "all"
	TrendingMovie TrendingType = "movie"
	TrendingTV    TrendingType = "tv"
)

type TimeWindow string

const (
	Day  TimeWindow = "day"
	Week TimeWindow = "week"
)

var (
	movieEndpoints = map[string]bool{"popular": true, "top_rated": true, "upcoming": true, "now_playing": true}
	tvEndpoints    = map[string]bool{"popular": true, "top_rated": true, "on_the_air": true, "airing_today": true}
)

// Trending fetches /trending/{type}/{window}.
func (c *Client) Trending(ctx context.Context, mediaType TrendingType, window TimeWindow) (*media.ResultPage, error) {
	var fallback media.Kind
	switch mediaType {
	case TrendingAll:
	case TrendingMovie:
		fallback = media.KindMovie
	case TrendingTV:
		fallback = media.KindTV
	default:
		return nil, fmt.Errorf("%w: trending type %q", ErrUnknownEndpoint, mediaType)
	}
	if window != Day && window != Week {
		return nil, fmt.Errorf("%w: time window %q", ErrUnknownEndpoint, window)
	}

	var raw rawPage
	path := fmt.Sprintf("/trending/%s/%s", mediaType, window)
	if err := c.get(ctx, "trending", path, nil, &raw); err != nil {
		return nil, err
	}
	return raw.toPage(fallback), nil
}

// Movies fetches one of the movie list endpoints (popular, top_rated,
// upcoming, now_playing).
func (c *Client) Movies(ctx context.Context, endpoint string) (*media.ResultPage, error) {
	if !movieEndpoints[endpoint] {
		return nil, fmt.Errorf("%w: movie/%s", ErrUnknownEndpoint, endpoint)
	}

	var raw rawPage
	if err := c.get(ctx, "movie/list", "/movie/"+endpoint, nil, &raw); err != nil {
		return nil, err
	}
	return raw.toPage(media.KindMovie), nil
}

// TVShows fetches one of the TV list endpoints (popular, top_rated,
// on_the_air, airing_today).
func (c *Client) TVShows(ctx context.Context, endpoint string) (*media.ResultPage, error) {
	if !tvEndpoints[endpoint] {
		return nil, fmt.Errorf("%w: tv/%s", ErrUnknownEndpoint, endpoint)
	}

	var raw rawPage
	if err := c.get(ctx, "tv/list", "/tv/"+endpoint, nil, &raw); err != nil {
		return nil, err
	}
	return raw.toPage(media.KindTV), nil
}

func (c *Client) MoviesByGenre(ctx context.Context, genreID int) (*media.ResultPage, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))

	var raw rawPage
	if err := c.get(ctx, "discover/movie", "/discover/movie", params, &raw); err != nil {
		return nil, err
	}
	return raw.toPage(media.KindMovie), nil
}

// SearchMulti searches movies, TV shows and people. People are dropped from
// the result.
func (c *Client) SearchMulti(ctx context.Context, query string) (*media.ResultPage, error) {
	params := url.Values{}
	params.Set("query", query)

	var raw rawPage
	if err := c.get(ctx, "search/multi", "/search/multi", params, &raw); err != nil {
		return nil, err
	}
	return raw.toPage(""), nil
}

func (c *Client) Movie(ctx context.Context, id int) (*media.Movie, error) {
	var raw rawItem
	if err := c.get(ctx, "movie/details", "/movie/"+strconv.Itoa(id), nil, &raw); err != nil {
		return nil, err
	}
	movie := raw.movie()
	return &movie, nil
}

// TVShow fetches a show's detail record including its season listing.
func (c *Client) TVShow(ctx context.Context, id int) (*media.TVShowDetails, error) {
	var raw rawItem
	if err := c.get(ctx, "tv/details", "/tv/"+strconv.Itoa(id), nil, &raw); err != nil {
		return nil, err
	}
	return &media.TVShowDetails{
		TVShow:  raw.tvShow(),
		Seasons: raw.Seasons,
	}, nil
}

func (c *Client) Season(ctx context.Context, tvID, season int) (*media.SeasonDetails, error) {
	var details media.SeasonDetails
	path := fmt.Sprintf("/tv/%d/season/%d", tvID, season)
	if err := c.get(ctx, "tv/season", path, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
