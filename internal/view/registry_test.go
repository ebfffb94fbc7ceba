package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviestream-ai/moviestream/internal/browse"
	"github.com/moviestream-ai/moviestream/internal/history"
	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/storage"
	"github.com/moviestream-ai/moviestream/internal/watch"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(NewLoader(newFakeCatalog(), nil, browse.Default()), browse.Default(), nil)

	a := r.Create()
	b := r.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.True(t, r.Delete(a.ID))
	assert.False(t, r.Delete(a.ID))
	_, ok = r.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryPrune(t *testing.T) {
	r := NewRegistry(nil, browse.Default(), nil)

	idle := r.Create()
	active := r.Create()

	idle.mu.Lock()
	idle.lastActive = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()
	active.Touch()

	removed := r.Prune(context.Background(), time.Hour)
	assert.Equal(t, []string{idle.ID}, removed)

	_, ok := r.Get(active.ID)
	assert.True(t, ok)
}

func TestRegistryStaysAvailableWhileWatchLoads(t *testing.T) {
	catalog := newFakeCatalog()
	gate := make(chan struct{})
	catalog.details[550] = &media.Movie{Summary: media.Summary{ID: 550}, Title: "Fight Club"}
	catalog.gate["details/550"] = gate

	hist := history.New(storage.NewMemoryStore())
	defs := browse.Default()
	players := func(sel Selection) *watch.Player {
		return watch.NewPlayer(sel.ID, sel.Kind, catalog, hist, "")
	}
	r := NewRegistry(NewLoader(catalog, hist, defs), defs, players)

	busy := r.Create()
	other := r.Create()

	dispatched := make(chan error, 1)
	go func() {
		_, err := busy.Dispatch(context.Background(), OpenWatch{ID: 550, Kind: media.KindMovie})
		dispatched <- err
	}()
	require.Eventually(t, func() bool {
		_, open := busy.Player()
		return open
	}, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		busy.Snapshot()
		r.Prune(context.Background(), time.Hour)
		got, ok := r.Get(other.ID)
		assert.True(t, ok)
		assert.Same(t, other, got)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("registry blocked behind a loading watch overlay")
	}

	close(gate)
	require.NoError(t, <-dispatched)
	assert.Equal(t, 2, r.Len())
}
