// Package watch drives the full-screen player overlay for one item.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/moviestream-ai/moviestream/internal/history"
	"github.com/moviestream-ai/moviestream/internal/media"
)

var (
	ErrNotTV           = errors.New("item is not a TV show")
	ErrUnknownSeason   = errors.New("season not available")
	ErrUnknownEpisode  = errors.New("episode not available")
	ErrDetailsNotReady = errors.New("details not loaded")
)

// Catalog is the subset of the catalog client the player needs.
type Catalog interface {
	Movie(ctx context.Context, id int) (*media.Movie, error)
	TVShow(ctx context.Context, id int) (*media.TVShowDetails, error)
	Season(ctx context.Context, tvID, season int) (*media.SeasonDetails, error)
}

// Recorder receives a continue-watching entry when details load.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// State is a point-in-time view of a Player.
type State struct {
	ID        int             `json:"id"`
	Kind      media.Kind      `json:"type"`
	Loaded    bool            `json:"loaded"`
	Title     string          `json:"title"`
	Seasons   []media.Season  `json:"seasons,omitempty"`
	Season    int             `json:"season,omitempty"`
	HasSeason bool            `json:"has_season"`
	Episodes  []media.Episode `json:"episodes,omitempty"`
	Episode   int             `json:"episode,omitempty"`
	EmbedURL  string          `json:"embed_url"`
}

// Player holds the selection state of one open overlay. mu guards the
// selection only; catalog calls are made without it so State never waits on
// the network.
type Player struct {
	catalog   Catalog
	recorder  Recorder
	embedBase string

	mu        sync.Mutex
	id        int
	kind      media.Kind
	loaded    bool
	title     string
	seasons   []media.Season
	season    int
	hasSeason bool
	episodes  []media.Episode
	episode   int
	seasonSeq uint64
}

// NewPlayer returns a player for id/kind. Until Load succeeds a TV player
// points at season 1 episode 1.
func NewPlayer(id int, kind media.Kind, catalog Catalog, recorder Recorder, embedBase string) *Player {
	p := &Player{
		catalog:   catalog,
		recorder:  recorder,
		embedBase: embedBase,
		id:        id,
		kind:      kind,
	}
	if kind == media.KindTV {
		p.season, p.episode, p.hasSeason = 1, 1, true
	}
	return p
}

// Load fetches the item's details, records it as continue-watching and,
// for TV, selects the first regular season and its first episode. Catalog
// calls run without the player lock held.
func (p *Player) Load(ctx context.Context) error {
	if p.kind == media.KindTV {
		return p.loadTV(ctx)
	}
	return p.loadMovie(ctx)
}

func (p *Player) loadMovie(ctx context.Context) error {
	movie, err := p.catalog.Movie(ctx, p.id)
	if err != nil {
		return fmt.Errorf("failed to load movie %d: %w", p.id, err)
	}

	p.mu.Lock()
	p.title = movie.Title
	if p.title == "" {
		p.title = "Movie"
	}
	p.loaded = true
	p.mu.Unlock()

	p.record(ctx, *movie)
	return nil
}

func (p *Player) loadTV(ctx context.Context) error {
	show, err := p.catalog.TVShow(ctx, p.id)
	if err != nil {
		return fmt.Errorf("failed to load tv show %d: %w", p.id, err)
	}

	seasons := make([]media.Season, 0, len(show.Seasons))
	for _, s := range show.Seasons {
		if s.SeasonNumber > 0 {
			seasons = append(seasons, s)
		}
	}

	p.mu.Lock()
	p.title = show.Name
	if p.title == "" {
		p.title = "TV Show"
	}
	p.loaded = true
	p.seasons = seasons

	// Specials-only shows have nothing to select.
	if len(seasons) == 0 {
		p.season, p.episode, p.hasSeason = 0, 0, false
		p.episodes = nil
		p.mu.Unlock()
		slog.Debug("TV show has no regular seasons", "id", p.id)
		p.record(ctx, show.TVShow)
		return nil
	}

	p.hasSeason = true
	seq := p.beginSeasonLocked(seasons[0].SeasonNumber)
	p.mu.Unlock()

	p.record(ctx, show.TVShow)
	return p.fetchSeason(ctx, seq, seasons[0].SeasonNumber)
}

func (p *Player) record(ctx context.Context, item media.Item) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Record(ctx, history.EntryFrom(item)); err != nil {
		slog.Error("Unable to record continue watching", "id", p.id, "err", err)
	}
}

// SelectSeason switches to season n, re-fetches its episodes and resets the
// episode to 1.
func (p *Player) SelectSeason(ctx context.Context, n int) error {
	if p.kind != media.KindTV {
		return ErrNotTV
	}

	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return ErrDetailsNotReady
	}
	if !p.hasRegularSeason(n) {
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownSeason, n)
	}
	seq := p.beginSeasonLocked(n)
	p.mu.Unlock()

	return p.fetchSeason(ctx, seq, n)
}

// beginSeasonLocked selects season n and returns the request number its
// episode listing must carry to be applied.
func (p *Player) beginSeasonLocked(n int) uint64 {
	p.season = n
	p.episode = 1
	p.episodes = nil
	p.seasonSeq++
	return p.seasonSeq
}

// fetchSeason loads the episodes of season n. The result is dropped if
// another season was selected in the meantime.
func (p *Player) fetchSeason(ctx context.Context, seq uint64, n int) error {
	details, err := p.catalog.Season(ctx, p.id, n)
	if err != nil {
		return fmt.Errorf("failed to load season %d of %d: %w", n, p.id, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq == p.seasonSeq {
		p.episodes = details.Episodes
	}
	return nil
}

func (p *Player) SelectEpisode(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.kind != media.KindTV {
		return ErrNotTV
	}
	for _, e := range p.episodes {
		if e.EpisodeNumber == n {
			p.episode = n
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownEpisode, n)
}

func (p *Player) hasRegularSeason(n int) bool {
	for _, s := range p.seasons {
		if s.SeasonNumber == n {
			return true
		}
	}
	return false
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return State{
		ID:        p.id,
		Kind:      p.kind,
		Loaded:    p.loaded,
		Title:     p.title,
		Seasons:   append([]media.Season(nil), p.seasons...),
		Season:    p.season,
		HasSeason: p.hasSeason,
		Episodes:  append([]media.Episode(nil), p.episodes...),
		Episode:   p.episode,
		EmbedURL:  EmbedURL(p.embedBase, p.kind, p.id, p.season, p.episode),
	}
}
