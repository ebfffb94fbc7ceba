package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moviestream-ai/moviestream/internal/browse"
	"github.com/moviestream-ai/moviestream/internal/metrics"
)

// Registry holds the open sessions keyed by id.
type Registry struct {
	loader  *Loader
	defs    *browse.Catalog
	players PlayerFactory

	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewRegistry(loader *Loader, defs *browse.Catalog, players PlayerFactory) *Registry {
	return &Registry{
		loader:   loader,
		defs:     defs,
		players:  players,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session without loading any content.
func (r *Registry) Create() *Session {
	session := NewSession(uuid.NewString(), r.loader, r.defs, r.players)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return session
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, exists := r.sessions[id]
	return session, exists
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.sessions[id]
	delete(r.sessions, id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return exists
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune removes sessions idle for longer than maxIdle and returns their ids.
// Session activity is read without the registry lock held.
func (r *Registry) Prune(_ context.Context, maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.RLock()
	candidates := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		candidates = append(candidates, session)
	}
	r.mu.RUnlock()

	var idle []*Session
	for _, session := range candidates {
		if session.LastActive().Before(cutoff) {
			idle = append(idle, session)
		}
	}
	if len(idle) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for _, session := range idle {
		if r.sessions[session.ID] != session {
			continue
		}
		delete(r.sessions, session.ID)
		removed = append(removed, session.ID)
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return removed
}
