// Package view implements the per-viewer navigation state: which page is
// active, the search query, the page filter and the open watch overlay.
package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moviestream-ai/moviestream/internal/browse"
	"github.com/moviestream-ai/moviestream/internal/media"
)

type Page string

const (
	PageHome   Page = "home"
	PageMovies Page = "movies"
	PageTV     Page = "tv"
	PageGenres Page = "genres"
)

var (
	ErrUnknownPage        = errors.New("unknown page")
	ErrFilterNotSupported = errors.New("page has no filters")
	ErrPageMismatch       = errors.New("page is not active")
	ErrUnknownFilter      = errors.New("unknown filter")
	ErrEmptyQuery         = errors.New("empty search query")
	ErrInvalidSelection   = errors.New("invalid watch selection")
)

// Selection identifies the item shown in the watch overlay.
type Selection struct {
	ID   int        `json:"id"`
	Kind media.Kind `json:"type"`
}

// State is the navigation state of one viewer. Generation increases with
// every transition that requests content.
type State struct {
	Page       Page       `json:"page"`
	Query      string     `json:"query,omitempty"`
	Filter     string     `json:"filter,omitempty"`
	Watch      *Selection `json:"watch,omitempty"`
	Generation uint64     `json:"generation"`
}

// Initial is the home page with no query and no overlay.
func Initial() State {
	return State{Page: PageHome}
}

// Action is one of Navigate, ChangeFilter, Search, OpenWatch or CloseWatch.
type Action interface {
	action()
}

type Navigate struct {
	Page Page
}

type ChangeFilter struct {
	Page   Page
	Filter string
}

type Search struct {
	Query string
}

type OpenWatch struct {
	ID   int
	Kind media.Kind
}

type CloseWatch struct{}

func (Navigate) action()     {}
func (ChangeFilter) action() {}
func (Search) action()       {}
func (OpenWatch) action()    {}
func (CloseWatch) action()   {}

type FetchKind string

const (
	FetchNone   FetchKind = ""
	FetchHome   FetchKind = "home"
	FetchPage   FetchKind = "page"
	FetchSearch FetchKind = "search"
)

// Fetch describes the content a transition asks for.
type Fetch struct {
	Kind       FetchKind
	Page       Page
	Filter     string
	Query      string
	Generation uint64
}

// FetchFor returns the content request for s. An active query always wins.
func FetchFor(s State) Fetch {
	switch {
	case s.Query != "":
		return Fetch{Kind: FetchSearch, Query: s.Query, Generation: s.Generation}
	case s.Page == PageHome:
		return Fetch{Kind: FetchHome, Page: PageHome, Generation: s.Generation}
	default:
		return Fetch{Kind: FetchPage, Page: s.Page, Filter: s.Filter, Generation: s.Generation}
	}
}

// Reduce applies a to s. It returns the next state and the content fetch the
// transition requires (Kind FetchNone for none). On error s is returned
// unchanged.
func Reduce(s State, a Action, defs *browse.Catalog) (State, Fetch, error) {
	switch a := a.(type) {
	case Navigate:
		filter := ""
		if a.Page != PageHome {
			page, ok := defs.Lookup(string(a.Page))
			if !ok {
				return s, Fetch{}, fmt.Errorf("%w: %q", ErrUnknownPage, a.Page)
			}
			filter = page.DefaultFilter
		}
		next := State{Page: a.Page, Filter: filter, Generation: s.Generation + 1}
		return next, FetchFor(next), nil

	case ChangeFilter:
		if a.Page == PageHome {
			return s, Fetch{}, ErrFilterNotSupported
		}
		page, ok := defs.Lookup(string(a.Page))
		if !ok {
			return s, Fetch{}, fmt.Errorf("%w: %q", ErrUnknownPage, a.Page)
		}
		if a.Page != s.Page || s.Query != "" {
			return s, Fetch{}, fmt.Errorf("%w: %q", ErrPageMismatch, a.Page)
		}
		if !page.HasFilter(a.Filter) {
			return s, Fetch{}, fmt.Errorf("%w: %q on %s", ErrUnknownFilter, a.Filter, a.Page)
		}
		next := s
		next.Filter = a.Filter
		next.Generation++
		return next, FetchFor(next), nil

	case Search:
		query := strings.TrimSpace(a.Query)
		if query == "" {
			return s, Fetch{}, ErrEmptyQuery
		}
		next := s
		next.Page = PageHome
		next.Query = query
		next.Filter = ""
		next.Generation++
		return next, FetchFor(next), nil

	case OpenWatch:
		if a.ID <= 0 {
			return s, Fetch{}, fmt.Errorf("%w: id %d", ErrInvalidSelection, a.ID)
		}
		if _, err := media.ParseKind(string(a.Kind)); err != nil {
			return s, Fetch{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		next := s
		next.Watch = &Selection{ID: a.ID, Kind: a.Kind}
		return next, Fetch{}, nil

	case CloseWatch:
		next := s
		next.Watch = nil
		if next.Page != PageHome {
			return next, Fetch{}, nil
		}
		next.Generation++
		return next, FetchFor(next), nil

	default:
		return s, Fetch{}, fmt.Errorf("unsupported action %T", a)
	}
}
