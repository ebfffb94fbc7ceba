package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/moviestream-ai/moviestream/internal/carousel"
	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/tmdb"
)

// TrendingSource supplies the hero slides.
type TrendingSource interface {
	Trending(ctx context.Context, mediaType tmdb.TrendingType, window tmdb.TimeWindow) (*media.ResultPage, error)
}

// HeroRefreshJob loads today's trending movies into the carousel.
type HeroRefreshJob struct {
	source   TrendingSource
	carousel *carousel.Carousel
}

func NewHeroRefreshJob(source TrendingSource, c *carousel.Carousel) *HeroRefreshJob {
	return &HeroRefreshJob{source: source, carousel: c}
}

func (j *HeroRefreshJob) Name() string {
	return "hero-refresh"
}

// Run replaces the slides. On failure the previous slides stay.
func (j *HeroRefreshJob) Run(ctx context.Context) error {
	page, err := j.source.Trending(ctx, tmdb.TrendingMovie, tmdb.Day)
	if err != nil {
		return fmt.Errorf("failed to fetch hero slides: %w", err)
	}
	j.carousel.SetSlides(page.Results)
	slog.Debug("Hero slides refreshed", "slides", min(len(page.Results), carousel.MaxSlides))
	return nil
}

// SessionPruner drops idle sessions.
type SessionPruner interface {
	Prune(ctx context.Context, maxIdle time.Duration) []string
}

type SessionPruneJob struct {
	sessions SessionPruner
	maxIdle  time.Duration
	onPrune  func(id string)
}

// NewSessionPruneJob returns a job removing sessions idle longer than
// maxIdle. onPrune, if set, is called for each removed session.
func NewSessionPruneJob(sessions SessionPruner, maxIdle time.Duration, onPrune func(id string)) *SessionPruneJob {
	return &SessionPruneJob{sessions: sessions, maxIdle: maxIdle, onPrune: onPrune}
}

func (j *SessionPruneJob) Name() string {
	return "session-prune"
}

func (j *SessionPruneJob) Run(ctx context.Context) error {
	removed := j.sessions.Prune(ctx, j.maxIdle)
	for _, id := range removed {
		if j.onPrune != nil {
			j.onPrune(id)
		}
	}
	if len(removed) > 0 {
		slog.Info("Pruned idle sessions", "count", len(removed))
	}
	return nil
}
