// Package session holds the state of one browsing session: selected cinema,
// filter inputs and the visibility ledger. It is loaded once at session
// start and written back through its Store on every change.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amaumene/cinemahome/internal/ledger"
	"github.com/amaumene/cinemahome/internal/listing"
)

// ErrEmptyLocation is returned when selecting a blank cinema
var ErrEmptyLocation = errors.New("location must not be empty")

// Store is the persisted part of a session
type Store interface {
	ledger.Store
	LoadLocation(ctx context.Context) (string, error)
	SaveLocation(ctx context.Context, location string) error
}

// Filters are the user-controlled inputs of the listing pipeline
type Filters struct {
	Search string           `json:"search"`
	Genre  string           `json:"genre"`
	Sort   listing.SortKind `json:"sort"`
}

// DefaultFilters shows every movie sorted by title
func DefaultFilters() Filters {
	return Filters{Search: "", Genre: listing.AllGenres, Sort: listing.SortTitleAsc}
}

// Session is not safe for concurrent use; callers serialise access.
type Session struct {
	store    Store
	Location string
	Filters  Filters
	Ledger   *ledger.Ledger
}

// Load reads the selected cinema and hidden list from store.
// defaultLocation is used when nothing was saved yet.
func Load(ctx context.Context, store Store, defaultLocation string) (*Session, error) {
	location, err := store.LoadLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load selected location: %w", err)
	}
	if strings.TrimSpace(location) == "" {
		location = defaultLocation
	}

	l, err := ledger.Load(ctx, store)
	if err != nil {
		return nil, err
	}

	return &Session{
		store:    store,
		Location: location,
		Filters:  DefaultFilters(),
		Ledger:   l,
	}, nil
}

// ChangeLocation selects another cinema, persists it and resets the filters.
// Selecting the current cinema again still resets them.
func (s *Session) ChangeLocation(ctx context.Context, location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return ErrEmptyLocation
	}

	if err := s.store.SaveLocation(ctx, location); err != nil {
		return fmt.Errorf("failed to save selected location: %w", err)
	}

	s.Location = location
	s.Filters = DefaultFilters()
	return nil
}

func (s *Session) SetSearch(query string) {
	s.Filters.Search = query
}

// SetGenre selects a genre; blank selects every genre
func (s *Session) SetGenre(genre string) {
	if strings.TrimSpace(genre) == "" {
		genre = listing.AllGenres
	}
	s.Filters.Genre = genre
}

// SetSort parses and applies a sort selection
func (s *Session) SetSort(value string) error {
	kind, err := listing.ParseSort(value)
	if err != nil {
		return err
	}
	s.Filters.Sort = kind
	return nil
}

// ResetFilters restores DefaultFilters
func (s *Session) ResetFilters() {
	s.Filters = DefaultFilters()
}
