// Package board implements the kanban board engine: an ordered collection of
// cards grouped into status columns, with move, capacity and statistics rules
// shared by every board variant.
package board

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type settings struct {
	now      func() time.Time
	terminal Status
}

// Option configures an Engine.
type Option func(*settings)

// WithClock replaces time.Now as the source of UpdatedAt and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTerminal sets the workflow-ending column. Defaults to the last column.
func WithTerminal(status Status) Option {
	return func(s *settings) {
		s.terminal = status
	}
}

// Engine owns the cards of one board. All methods are safe for concurrent use;
// every operation runs as a single critical section, so capacity admission is
// evaluated against the state at commit time.
type Engine[P any] struct {
	mu       sync.RWMutex
	columns  []Column
	byStatus map[Status]int
	terminal Status
	now      func() time.Time

	cards []*Card[P]
}

// New creates an engine over the given columns.
func New[P any](columns []Column, opts ...Option) (*Engine[P], error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns defined", ErrInvalidColumn)
	}

	s := settings{now: time.Now, terminal: columns[len(columns)-1].Status}
	for _, opt := range opts {
		opt(&s)
	}

	byStatus := make(map[Status]int, len(columns))
	for i, col := range columns {
		if col.Status == "" {
			return nil, fmt.Errorf("%w: column %d has no status", ErrInvalidColumn, i)
		}
		if _, dup := byStatus[col.Status]; dup {
			return nil, fmt.Errorf("%w: duplicate status %q", ErrInvalidColumn, col.Status)
		}
		if col.MaxItems < 0 {
			return nil, fmt.Errorf("%w: negative limit on %q", ErrInvalidColumn, col.Status)
		}
		byStatus[col.Status] = i
	}
	if _, ok := byStatus[s.terminal]; !ok {
		return nil, fmt.Errorf("%w: terminal status %q", ErrInvalidColumn, s.terminal)
	}

	cols := make([]Column, len(columns))
	copy(cols, columns)

	return &Engine[P]{
		columns:  cols,
		byStatus: byStatus,
		terminal: s.terminal,
		now:      s.now,
	}, nil
}

// Columns returns the column definitions in display order.
func (e *Engine[P]) Columns() []Column {
	out := make([]Column, len(e.columns))
	copy(out, e.columns)
	return out
}

// Column looks up a column by status.
func (e *Engine[P]) Column(status Status) (Column, bool) {
	i, ok := e.byStatus[status]
	if !ok {
		return Column{}, false
	}
	return e.columns[i], true
}

func (e *Engine[P]) Terminal() Status {
	return e.terminal
}

// Add inserts a card at the end of the collection. Capacity is a move-time
// bound and is not checked here.
func (e *Engine[P]) Add(card Card[P]) (Card[P], error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.byStatus[card.Status]; !ok {
		return Card[P]{}, fmt.Errorf("%w: %q", ErrInvalidColumn, card.Status)
	}
	if card.ID == "" {
		card.ID = uuid.NewString()
	} else if e.find(card.ID) >= 0 {
		return Card[P]{}, fmt.Errorf("%w: %s", ErrDuplicateCard, card.ID)
	}

	now := e.now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = card.CreatedAt
	}
	if card.Version == 0 {
		card.Version = 1
	}

	stored := card.clone()
	e.cards = append(e.cards, &stored)
	return stored.clone(), nil
}

// Get returns a snapshot of a single card.
func (e *Engine[P]) Get(id string) (Card[P], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i := e.find(id)
	if i < 0 {
		return Card[P]{}, ErrNotFound
	}
	return e.cards[i].clone(), nil
}

// Cards returns a snapshot of the whole collection in insertion order.
func (e *Engine[P]) Cards() []Card[P] {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Card[P], len(e.cards))
	for i, c := range e.cards {
		out[i] = c.clone()
	}
	return out
}

// CardsInStatus returns the cards of one column in collection order.
func (e *Engine[P]) CardsInStatus(status Status) ([]Card[P], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.byStatus[status]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColumn, status)
	}

	out := make([]Card[P], 0)
	for _, c := range e.cards {
		if c.Status == status {
			out = append(out, c.clone())
		}
	}
	return out, nil
}

// MoveCard transitions a card to the target column. Moving a card to the
// column it already occupies is a no-op and leaves UpdatedAt untouched.
func (e *Engine[P]) MoveCard(id string, target Status) (Card[P], error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.move(id, "", target)
}

// MoveCardFrom is MoveCard guarded by the source column the caller observed.
// If the card has left that column in the meantime ErrConflict is returned.
func (e *Engine[P]) MoveCardFrom(id string, expected, target Status) (Card[P], error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.move(id, expected, target)
}

func (e *Engine[P]) move(id string, expected, target Status) (Card[P], error) {
	i := e.find(id)
	if i < 0 {
		return Card[P]{}, ErrNotFound
	}
	col, ok := e.Column(target)
	if !ok {
		return Card[P]{}, fmt.Errorf("%w: %q", ErrInvalidColumn, target)
	}

	card := e.cards[i]
	if expected != "" && card.Status != expected {
		return Card[P]{}, fmt.Errorf("%w: %s is in %q, not %q", ErrConflict, id, card.Status, expected)
	}
	if card.Status == target {
		return card.clone(), nil
	}

	// the moving card is not in the target yet, so it never counts here
	if col.Bounded() && e.count(target) >= col.MaxItems {
		return Card[P]{}, &CapacityExceededError{Column: target, Limit: col.MaxItems}
	}

	card.Status = target
	e.touch(card)
	return card.clone(), nil
}

// Edit applies fn to a card. Identity, status, creation time and version are
// owned by the engine and survive whatever fn does to them.
func (e *Engine[P]) Edit(id string, fn func(*Card[P])) (Card[P], error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.find(id)
	if i < 0 {
		return Card[P]{}, ErrNotFound
	}

	card := e.cards[i]
	work := card.clone()
	fn(&work)

	work.ID = card.ID
	work.Status = card.Status
	work.CreatedAt = card.CreatedAt
	work.Version = card.Version
	e.touch(&work)

	*card = work
	return card.clone(), nil
}

// Remove deletes a card from the collection.
func (e *Engine[P]) Remove(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.find(id)
	if i < 0 {
		return ErrNotFound
	}
	e.cards = append(e.cards[:i], e.cards[i+1:]...)
	return nil
}

func (e *Engine[P]) touch(card *Card[P]) {
	card.UpdatedAt = e.now()
	card.Version++
}

func (e *Engine[P]) find(id string) int {
	for i, c := range e.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine[P]) count(status Status) int {
	n := 0
	for _, c := range e.cards {
		if c.Status == status {
			n++
		}
	}
	return n
}
