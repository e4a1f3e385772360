// Package ledger tracks the movies a user has hidden, with undo and redo.
package ledger

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNothingToRedo    = errors.New("nothing to redo")
	ErrNothingToRestore = errors.New("no hidden movies to restore")
	ErrHideDeclined     = errors.New("hide was not confirmed")
	ErrAlreadyHidden    = errors.New("movie is already hidden")
)

// Store persists the hidden list. The redo history is never persisted.
type Store interface {
	LoadHidden(ctx context.Context) ([]int64, error)
	SaveHidden(ctx context.Context, hidden []int64) error
}

// Confirmer asks the user whether a movie should really be hidden
type Confirmer interface {
	ConfirmHide(ctx context.Context, movieID int64) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer
type ConfirmFunc func(ctx context.Context, movieID int64) (bool, error)

func (f ConfirmFunc) ConfirmHide(ctx context.Context, movieID int64) (bool, error) {
	return f(ctx, movieID)
}

// Ledger holds two stacks: hidden (oldest hide first) and redo (most recent
// undo last). They are only ever pushed or popped at the end, and an id is
// never in both at once.
//
// Every mutation saves the new hidden list before touching memory, so a
// failed write leaves the ledger unchanged. A Ledger is owned by one
// session and is not safe for concurrent use.
type Ledger struct {
	store  Store
	hidden []int64
	redo   []int64
}

// New returns an empty ledger backed by store
func New(store Store) *Ledger {
	return &Ledger{store: store, hidden: []int64{}, redo: []int64{}}
}

// Load restores the hidden list from store. Duplicate ids are dropped,
// keeping the first occurrence.
func Load(ctx context.Context, store Store) (*Ledger, error) {
	saved, err := store.LoadHidden(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load hidden movies: %w", err)
	}

	l := New(store)
	seen := make(map[int64]bool, len(saved))
	for _, id := range saved {
		if seen[id] {
			continue
		}
		seen[id] = true
		l.hidden = append(l.hidden, id)
	}
	return l, nil
}

// Hide asks confirmer, then appends movieID to the hidden list and clears
// the redo history.
func (l *Ledger) Hide(ctx context.Context, movieID int64, confirmer Confirmer) error {
	if l.IsHidden(movieID) {
		return ErrAlreadyHidden
	}

	if confirmer != nil {
		ok, err := confirmer.ConfirmHide(ctx, movieID)
		if err != nil {
			return fmt.Errorf("failed to confirm hide: %w", err)
		}
		if !ok {
			return ErrHideDeclined
		}
	}

	hidden := append(l.Hidden(), movieID)
	if err := l.save(ctx, hidden); err != nil {
		return err
	}

	l.hidden = hidden
	l.redo = []int64{}
	return nil
}

// Undo un-hides the most recently hidden movie and returns its id
func (l *Ledger) Undo(ctx context.Context) (int64, error) {
	if len(l.hidden) == 0 {
		return 0, ErrNothingToUndo
	}

	last := len(l.hidden) - 1
	movieID := l.hidden[last]
	hidden := append([]int64{}, l.hidden[:last]...)
	if err := l.save(ctx, hidden); err != nil {
		return 0, err
	}

	l.hidden = hidden
	l.redo = append(l.redo, movieID)
	return movieID, nil
}

// Redo hides again the most recently un-hidden movie and returns its id
func (l *Ledger) Redo(ctx context.Context) (int64, error) {
	if len(l.redo) == 0 {
		return 0, ErrNothingToRedo
	}

	last := len(l.redo) - 1
	movieID := l.redo[last]
	hidden := append(l.Hidden(), movieID)
	if err := l.save(ctx, hidden); err != nil {
		return 0, err
	}

	l.hidden = hidden
	l.redo = l.redo[:last]
	return movieID, nil
}

// RestoreAll clears both stacks and returns how many movies became visible
func (l *Ledger) RestoreAll(ctx context.Context) (int, error) {
	if len(l.hidden) == 0 {
		return 0, ErrNothingToRestore
	}

	if err := l.save(ctx, []int64{}); err != nil {
		return 0, err
	}

	restored := len(l.hidden)
	l.hidden = []int64{}
	l.redo = []int64{}
	return restored, nil
}

// IsHidden reports whether movieID is currently hidden
func (l *Ledger) IsHidden(movieID int64) bool {
	for _, id := range l.hidden {
		if id == movieID {
			return true
		}
	}
	return false
}

// Hidden returns a copy of the hidden list, oldest first
func (l *Ledger) Hidden() []int64 {
	return append([]int64{}, l.hidden...)
}

// RedoStack returns a copy of the redo history, most recent undo last
func (l *Ledger) RedoStack() []int64 {
	return append([]int64{}, l.redo...)
}

func (l *Ledger) CanUndo() bool { return len(l.hidden) > 0 }

func (l *Ledger) CanRedo() bool { return len(l.redo) > 0 }

func (l *Ledger) save(ctx context.Context, hidden []int64) error {
	if l.store == nil {
		return nil
	}
	if err := l.store.SaveHidden(ctx, hidden); err != nil {
		return fmt.Errorf("failed to save hidden movies: %w", err)
	}
	return nil
}
