package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/moviestream-ai/moviestream/internal/media"
	"github.com/moviestream-ai/moviestream/internal/metrics"
	"github.com/moviestream-ai/moviestream/internal/storage"
)

const (
	// Key is the storage key holding the continue-watching list.
	Key = "moviestream_continue_watching"
	// MaxEntries caps the list length.
	MaxEntries = 20
)

// Entry is a continue-watching record, projected from a detail response.
type Entry struct {
	ID          int     `json:"id" parquet:"id"`
	IsTV        bool    `json:"isTV" parquet:"is_tv"`
	Title       string  `json:"title" parquet:"title"`
	PosterPath  string  `json:"poster_path" parquet:"poster_path"`
	VoteAverage float64 `json:"vote_average" parquet:"vote_average"`
	Overview    string  `json:"overview" parquet:"overview"`
}

// EntryFrom projects a catalog item into an Entry.
func EntryFrom(item media.Item) Entry {
	info := item.Info()
	return Entry{
		ID:          info.ID,
		IsTV:        item.Kind() == media.KindTV,
		Title:       item.DisplayTitle(),
		PosterPath:  info.PosterPath,
		VoteAverage: info.VoteAverage,
		Overview:    info.Overview,
	}
}

func (e Entry) Kind() media.Kind {
	if e.IsTV {
		return media.KindTV
	}
	return media.KindMovie
}

// Item converts the entry back into a catalog item for display.
func (e Entry) Item() media.Item {
	summary := media.Summary{
		ID:          e.ID,
		PosterPath:  e.PosterPath,
		Overview:    e.Overview,
		VoteAverage: e.VoteAverage,
	}
	if e.IsTV {
		return media.TVShow{Summary: summary, Name: e.Title}
	}
	return media.Movie{Summary: summary, Title: e.Title}
}

// Store maintains the continue-watching list on top of a key-value store.
// Writes are serialised within the process; concurrent processes sharing
// the same backend are last-write-wins.
type Store struct {
	kv storage.Store
	mu sync.Mutex
}

func New(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Record moves entry to the front of the list, dropping any earlier entry
// with the same id and truncating to MaxEntries.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)
	if err := s.save(ctx, prepend(entries, entry)); err != nil {
		return err
	}
	metrics.ContinueWatchingRecords.Inc()
	return nil
}

// List returns the entries most recent first. Missing or unreadable data
// yields an empty list.
func (s *Store) List(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Clear(ctx, Key); err != nil {
		return fmt.Errorf("failed to clear continue watching: %w", err)
	}
	return nil
}

// Replace overwrites the list with entries, keeping the first occurrence of
// each id and at most MaxEntries.
func (s *Store) Replace(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, normalize(entries))
}

func (s *Store) load(ctx context.Context) []Entry {
	data, err := s.kv.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		return []Entry{}
	}
	if err != nil {
		slog.Error("Unable to read continue watching", "err", err)
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("Discarding unreadable continue watching data", "err", err)
		return []Entry{}
	}
	return normalize(entries)
}

func (s *Store) save(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode continue watching: %w", err)
	}
	if err := s.kv.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("failed to save continue watching: %w", err)
	}
	return nil
}

func prepend(entries []Entry, entry Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entry)
	for _, e := range entries {
		if e.ID != entry.ID {
			out = append(out, e)
		}
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

func normalize(entries []Entry) []Entry {
	seen := make(map[int]bool, len(entries))
	out := make([]Entry, 0, min(len(entries), MaxEntries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
		if len(out) == MaxEntries {
			break
		}
	}
	return out
}
