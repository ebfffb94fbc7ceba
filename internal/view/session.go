package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/moviestream-ai/moviestream/internal/browse"
	"github.com/moviestream-ai/moviestream/internal/metrics"
	"github.com/moviestream-ai/moviestream/internal/watch"
)

// PlayerFactory builds the overlay player for a selection.
type PlayerFactory func(sel Selection) *watch.Player

// Snapshot is the externally visible state of a session.
type Snapshot struct {
	ID      string       `json:"id"`
	State   State        `json:"state"`
	Content Content      `json:"content"`
	Watch   *watch.State `json:"watch,omitempty"`
}

// Session is one viewer's navigation state plus the content last loaded
// for it. Content from a fetch is applied only if no later transition has
// requested newer content in the meantime.
type Session struct {
	ID string

	loader  *Loader
	defs    *browse.Catalog
	players PlayerFactory

	mu         sync.Mutex
	state      State
	content    Content
	player     *watch.Player
	lastActive time.Time
	onChange   func(Snapshot)
}

func NewSession(id string, loader *Loader, defs *browse.Catalog, players PlayerFactory) *Session {
	return &Session{
		ID:         id,
		loader:     loader,
		defs:       defs,
		players:    players,
		state:      Initial(),
		lastActive: time.Now(),
	}
}

// OnChange registers fn to receive a snapshot after every applied change.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Start loads content for the current state.
func (s *Session) Start(ctx context.Context) Snapshot {
	s.mu.Lock()
	fetch := FetchFor(s.state)
	s.mu.Unlock()

	s.load(ctx, fetch)
	return s.notify()
}

// Dispatch applies a to the session. Rejected actions leave the session
// untouched and return the error alongside the current snapshot.
func (s *Session) Dispatch(ctx context.Context, a Action) (Snapshot, error) {
	s.mu.Lock()
	next, fetch, err := Reduce(s.state, a, s.defs)
	if err != nil {
		snap, player := s.snapshotLocked()
		s.mu.Unlock()
		return withWatch(snap, player), err
	}

	s.state = next
	s.lastActive = time.Now()

	var opened *watch.Player
	switch a.(type) {
	case OpenWatch:
		opened = s.players(*next.Watch)
		s.player = opened
	case CloseWatch, Navigate:
		s.player = nil
	}
	s.mu.Unlock()

	if opened != nil {
		if err := opened.Load(ctx); err != nil {
			slog.Error("Unable to load watch details", "session", s.ID, "err", err)
		}
	}

	if fetch.Kind != FetchNone {
		s.load(ctx, fetch)
	}
	return s.notify(), nil
}

func (s *Session) load(ctx context.Context, fetch Fetch) {
	content := s.loader.Load(ctx, fetch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if fetch.Generation != s.state.Generation {
		metrics.StaleFetchesDiscarded.Inc()
		slog.Debug("Discarding stale content", "session", s.ID, "fetch_generation", fetch.Generation, "current_generation", s.state.Generation)
		return
	}
	s.content = content
}

// Player returns the open overlay player, if any.
func (s *Session) Player() (*watch.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player, s.player != nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap, player := s.snapshotLocked()
	s.mu.Unlock()
	return withWatch(snap, player)
}

// Touch marks the session as used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Notify publishes the current snapshot to the change callback and returns
// it.
func (s *Session) Notify() Snapshot {
	return s.notify()
}

// Publish sends the current snapshot to the change callback without
// returning it.
func (s *Session) Publish() {
	s.notify()
}

func (s *Session) notify() Snapshot {
	s.mu.Lock()
	snap, player := s.snapshotLocked()
	fn := s.onChange
	s.mu.Unlock()

	snap = withWatch(snap, player)
	if fn != nil {
		fn(snap)
	}
	return snap
}

// snapshotLocked copies the session's own state. The open player is
// returned separately so its state is read after s.mu is released.
func (s *Session) snapshotLocked() (Snapshot, *watch.Player) {
	snap := Snapshot{
		ID:      s.ID,
		State:   s.state,
		Content: s.content,
	}
	if s.state.Watch != nil {
		sel := *s.state.Watch
		snap.State.Watch = &sel
	}
	return snap, s.player
}

func withWatch(snap Snapshot, player *watch.Player) Snapshot {
	if player != nil {
		st := player.State()
		snap.Watch = &st
	}
	return snap
}
