// Package genie turns a free-text description into catalog movies by asking
// a text-generation provider for titles and resolving them via search.
package genie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/metrics"
	"github.com/moviestream-ai/moviestream/internal/providers"
)

// ErrUnavailable is returned when suggestions cannot be produced or resolved.
var ErrUnavailable = errors.New("recommendations unavailable")

// UnavailableMessage is shown to users for any ErrUnavailable.
const UnavailableMessage = "Could not find recommendations. Please try a different description."

// MaxSuggestions bounds how many titles are requested and resolved.
const MaxSuggestions = 3

// MockSuggestions is returned when no provider credential is configured.
func MockSuggestions() []media.Suggestion {
	return []media.Suggestion{
		{Title: "Inception", Year: 2010},
		{Title: "The Matrix", Year: 1999},
		{Title: "Blade Runner 2049", Year: 2017},
	}
}

// Searcher is the catalog search used to resolve suggestions.
type Searcher interface {
	SearchMulti(ctx context.Context, query string) (*media.ResultPage, error)
}

type Options struct {
	Model       string
	Temperature float64
}

type Service struct {
	provider providers.Provider
	searcher Searcher
	opts     Options
}

// New returns a Service. A nil provider means no credential is configured
// and Suggest answers with MockSuggestions.
func New(provider providers.Provider, searcher Searcher, opts Options) *Service {
	return &Service{
		provider: provider,
		searcher: searcher,
		opts:     opts,
	}
}

func (s *Service) UsesMock() bool {
	return s.provider == nil
}

// BuildPrompt wraps the user's description in the suggestion instructions.
func BuildPrompt(description string) string {
	return fmt.Sprintf(
		"Based on the user's request, suggest %d real movies that are likely to be listed on The Movie Database (TMDB). "+
			"Prefer well-known films. User request: %q",
		MaxSuggestions, description)
}

// Suggest returns up to MaxSuggestions title/year pairs for description.
func (s *Service) Suggest(ctx context.Context, description string) ([]media.Suggestion, error) {
	if s.provider == nil {
		slog.Debug("No suggestion provider configured, using mock suggestions")
		metrics.SuggestionsTotal.WithLabelValues("mock").Inc()
		return MockSuggestions(), nil
	}

	text, err := s.provider.ExtractText(ctx, providers.Config{
		Model:       s.opts.Model,
		Temperature: s.opts.Temperature,
		Prompt:      BuildPrompt(description),
	})
	if err != nil {
		slog.Error("Suggestion provider failed", "provider", s.provider.Name(), "err", err)
		metrics.SuggestionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	suggestions, err := parseSuggestions(text)
	if err != nil {
		slog.Error("Unable to parse suggestions", "provider", s.provider.Name(), "err", err)
		metrics.SuggestionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	metrics.SuggestionsTotal.WithLabelValues("ok").Inc()
	return suggestions, nil
}

// Resolve searches the catalog for each suggestion and keeps the first movie
// result with a poster. Order follows suggestions; unmatched ones are
// dropped. Any search failure fails the whole call.
func (s *Service) Resolve(ctx context.Context, suggestions []media.Suggestion) ([]media.Movie, error) {
	found := make([]*media.Movie, len(suggestions))

	g, ctx := errgroup.WithContext(ctx)
	for i, suggestion := range suggestions {
		g.Go(func() error {
			query := fmt.Sprintf("%s year:%d", suggestion.Title, suggestion.Year)
			page, err := s.searcher.SearchMulti(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to search for %q: %w", query, err)
			}
			found[i] = firstMovieWithPoster(page.Results)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("Unable to resolve suggestions", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	movies := make([]media.Movie, 0, len(found))
	for _, m := range found {
		if m != nil {
			movies = append(movies, *m)
		}
	}
	return movies, nil
}

// Recommend runs Suggest then Resolve. A blank description yields nothing.
func (s *Service) Recommend(ctx context.Context, description string) ([]media.Movie, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil
	}

	suggestions, err := s.Suggest(ctx, description)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, suggestions)
}

func firstMovieWithPoster(items []media.Item) *media.Movie {
	for _, item := range items {
		if m, ok := item.(media.Movie); ok && m.PosterPath != "" {
			return &m
		}
	}
	return nil
}

// parseSuggestions extracts the JSON array from a model answer, tolerating
// markdown fences and surrounding prose.
func parseSuggestions(text string) ([]media.Suggestion, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array in model response")
	}

	var suggestions []media.Suggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	out := make([]media.Suggestion, 0, MaxSuggestions)
	for _, s := range suggestions {
		if strings.TrimSpace(s.Title) == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out, nil
}
