package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"jobtracker/internal/board"
	"jobtracker/internal/model"
)

// Card is a board card with its payload kept as JSON, the form shared by
// the API, the cache and the database.
type Card = board.Card[datatypes.JSON]

// CardInput describes a new card. Empty status means the first column and
// empty priority means medium.
type CardInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      board.Status   `json:"status"`
	Priority    board.Priority `json:"priority"`
	DueDate     *time.Time     `json:"due_date"`
	Details     datatypes.JSON `json:"details"`
}

// CardPatch holds the fields an edit changes; nil fields are left alone.
// Details is merged onto the current payload.
type CardPatch struct {
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	Priority     *board.Priority `json:"priority"`
	DueDate      *time.Time      `json:"due_date"`
	ClearDueDate bool            `json:"clear_due_date"`
	Details      datatypes.JSON  `json:"details"`
}

// workspace is a board engine loaded for one request, with the payload type
// hidden behind JSON.
type workspace interface {
	Columns() []board.Column
	Terminal() board.Status
	Get(id string) (Card, error)
	Cards() ([]Card, error)
	CardsInStatus(status board.Status) ([]Card, error)
	Add(in CardInput) (Card, error)
	Edit(id string, patch CardPatch) (Card, error)
	Move(id string, expected, target board.Status) (Card, bool, error)
	UpdateResult(id string, result board.Result) (Card, error)
	Remove(id string) error
	Seed() ([]Card, error)
	Stats() any
}

type variant[P any] struct {
	columns    func(inProgressLimit int) []board.Column
	terminal   board.Status
	priorities []board.Priority
	samples    func() []board.Card[P]
	stats      func(*board.Engine[P]) any
	result     func(*board.Engine[P], string, board.Result) (board.Card[P], error)
	validate   func(P) error
}

var taskVariant = variant[board.Task]{
	columns:    board.TaskColumns,
	terminal:   board.StatusDone,
	priorities: board.TaskPriorities,
	samples:    board.SampleTasks,
	stats:      func(e *board.Engine[board.Task]) any { return board.TaskStats(e) },
}

var applicationVariant = variant[board.Application]{
	columns:    func(int) []board.Column { return board.ApplicationColumns() },
	terminal:   board.StatusClosed,
	priorities: board.ApplicationPriorities,
	samples:    board.SampleApplications,
	stats:      func(e *board.Engine[board.Application]) any { return board.ApplicationStats(e) },
	result:     board.UpdateResult,
	validate:   board.Application.Validate,
}

// baseColumns returns the columns of a board kind before per-board overrides.
func baseColumns(kind string, inProgressLimit int) ([]board.Column, error) {
	switch kind {
	case model.KindTasks:
		return taskVariant.columns(inProgressLimit), nil
	case model.KindApplications:
		return applicationVariant.columns(inProgressLimit), nil
	}
	return nil, fmt.Errorf("%w: unknown board kind %q", ErrValidation, kind)
}

// openWorkspace builds an engine for the board kind and loads rows into it.
// A row whose status is not a column of the board fails the load.
func openWorkspace(kind string, cols []board.Column, rows []model.Card, now func() time.Time) (workspace, error) {
	switch kind {
	case model.KindTasks:
		return taskVariant.open(cols, rows, now)
	case model.KindApplications:
		return applicationVariant.open(cols, rows, now)
	}
	return nil, fmt.Errorf("%w: unknown board kind %q", ErrValidation, kind)
}

func (v variant[P]) open(cols []board.Column, rows []model.Card, now func() time.Time) (workspace, error) {
	e, err := board.New[P](cols, board.WithTerminal(v.terminal), board.WithClock(now))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		c, err := decodeCard[P](row)
		if err != nil {
			return nil, err
		}
		if _, err := e.Add(c); err != nil {
			return nil, fmt.Errorf("load card %s: %w", row.ID, err)
		}
	}
	return &engineSpace[P]{v: v, e: e}, nil
}

type engineSpace[P any] struct {
	v variant[P]
	e *board.Engine[P]
}

func (w *engineSpace[P]) Columns() []board.Column { return w.e.Columns() }
func (w *engineSpace[P]) Terminal() board.Status  { return w.e.Terminal() }
func (w *engineSpace[P]) Stats() any              { return w.v.stats(w.e) }

func (w *engineSpace[P]) Get(id string) (Card, error) {
	c, err := w.e.Get(id)
	if err != nil {
		return Card{}, err
	}
	return encodeCard(c)
}

func (w *engineSpace[P]) Cards() ([]Card, error) {
	return encodeCards(w.e.Cards())
}

func (w *engineSpace[P]) CardsInStatus(status board.Status) ([]Card, error) {
	cards, err := w.e.CardsInStatus(status)
	if err != nil {
		return nil, err
	}
	return encodeCards(cards)
}

func (w *engineSpace[P]) Add(in CardInput) (Card, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Card{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = w.e.Columns()[0].Status
	}
	priority := in.Priority
	if priority == "" {
		priority = board.PriorityMedium
	}
	if err := w.checkPriority(priority); err != nil {
		return Card{}, err
	}

	var details P
	if len(in.Details) > 0 {
		if err := sonic.Unmarshal(in.Details, &details); err != nil {
			return Card{}, fmt.Errorf("%w: details: %v", ErrValidation, err)
		}
	}
	if err := w.checkDetails(details); err != nil {
		return Card{}, err
	}

	c, err := w.e.Add(board.Card[P]{
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
		Details:     details,
	})
	if err != nil {
		return Card{}, err
	}
	return encodeCard(c)
}

func (w *engineSpace[P]) Edit(id string, patch CardPatch) (Card, error) {
	cur, err := w.e.Get(id)
	if err != nil {
		return Card{}, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Card{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if patch.Priority != nil {
		if err := w.checkPriority(*patch.Priority); err != nil {
			return Card{}, err
		}
	}
	details := cur.Details
	if len(patch.Details) > 0 {
		if err := sonic.Unmarshal(patch.Details, &details); err != nil {
			return Card{}, fmt.Errorf("%w: details: %v", ErrValidation, err)
		}
		if err := w.checkDetails(details); err != nil {
			return Card{}, err
		}
	}

	c, err := w.e.Edit(id, func(c *board.Card[P]) {
		if patch.Title != nil {
			c.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Priority != nil {
			c.Priority = *patch.Priority
		}
		switch {
		case patch.ClearDueDate:
			c.DueDate = nil
		case patch.DueDate != nil:
			c.DueDate = patch.DueDate
		}
		c.Details = details
	})
	if err != nil {
		return Card{}, err
	}
	return encodeCard(c)
}

func (w *engineSpace[P]) checkDetails(details P) error {
	if w.v.validate == nil {
		return nil
	}
	return w.v.validate(details)
}

// Move reports whether the card actually changed column.
func (w *engineSpace[P]) Move(id string, expected, target board.Status) (Card, bool, error) {
	before, err := w.e.Get(id)
	if err != nil {
		return Card{}, false, err
	}
	c, err := w.e.MoveCardFrom(id, expected, target)
	if err != nil {
		return Card{}, false, err
	}
	out, err := encodeCard(c)
	return out, c.Version != before.Version, err
}

func (w *engineSpace[P]) UpdateResult(id string, result board.Result) (Card, error) {
	if w.v.result == nil {
		return Card{}, fmt.Errorf("%w: results are tracked on application boards only", ErrUnsupported)
	}
	c, err := w.v.result(w.e, id, result)
	if err != nil {
		return Card{}, err
	}
	return encodeCard(c)
}

func (w *engineSpace[P]) Remove(id string) error {
	return w.e.Remove(id)
}

// Seed adds the sample cards of the board kind.
func (w *engineSpace[P]) Seed() ([]Card, error) {
	var added []board.Card[P]
	for _, sample := range w.v.samples() {
		c, err := w.e.Add(sample)
		if err != nil {
			return nil, err
		}
		added = append(added, c)
	}
	return encodeCards(added)
}

func (w *engineSpace[P]) checkPriority(p board.Priority) error {
	if !slices.Contains(w.v.priorities, p) {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, p)
	}
	return nil
}

func decodeCard[P any](row model.Card) (board.Card[P], error) {
	var details P
	if len(row.Details) > 0 {
		if err := sonic.Unmarshal(row.Details, &details); err != nil {
			return board.Card[P]{}, fmt.Errorf("decode card %s: %w", row.ID, err)
		}
	}
	return board.Card[P]{
		ID:          row.ID.String(),
		Title:       row.Title,
		Description: row.Description,
		Status:      board.Status(row.Status),
		Priority:    board.Priority(row.Priority),
		DueDate:     row.DueDate,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Version:     row.Version,
		Details:     details,
	}, nil
}

func encodeCard[P any](c board.Card[P]) (Card, error) {
	data, err := sonic.Marshal(c.Details)
	if err != nil {
		return Card{}, fmt.Errorf("encode card %s: %w", c.ID, err)
	}
	return Card{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		Priority:    c.Priority,
		DueDate:     c.DueDate,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
		Details:     datatypes.JSON(data),
	}, nil
}

func encodeCards[P any](cards []board.Card[P]) ([]Card, error) {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		enc, err := encodeCard(c)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	return out, nil
}

func toModel(boardID uuid.UUID, c Card) (model.Card, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return model.Card{}, fmt.Errorf("card id %q: %w", c.ID, err)
	}
	return model.Card{
		ID:          id,
		BoardID:     boardID,
		Title:       c.Title,
		Description: c.Description,
		Status:      string(c.Status),
		Priority:    string(c.Priority),
		DueDate:     c.DueDate,
		Version:     c.Version,
		Details:     c.Details,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}
