package board

import "time"

// Status identifies the column a card belongs to.
type Status string

// Priority is informational only and never affects transitions.
type Priority string

// Column defines one workflow status. MaxItems of zero means unbounded.
type Column struct {
	Status   Status `json:"status"`
	Title    string `json:"title"`
	MaxItems int    `json:"max_items,omitempty"`
}

// Bounded reports whether the column enforces a capacity limit.
func (c Column) Bounded() bool {
	return c.MaxItems > 0
}

// Card is a tracked unit of work carrying a variant specific payload.
type Card[P any] struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int64      `json:"version"`
	Details     P          `json:"details"`
}

// IsOverdue reports whether the due date lies strictly before now.
// Column membership is not considered here.
func (c Card[P]) IsOverdue(now time.Time) bool {
	return c.DueDate != nil && c.DueDate.Before(now)
}

type cloner[P any] interface {
	Clone() P
}

// clone returns a copy that shares no mutable state with c.
func (c *Card[P]) clone() Card[P] {
	out := *c
	if c.DueDate != nil {
		d := *c.DueDate
		out.DueDate = &d
	}
	if cl, ok := any(c.Details).(cloner[P]); ok {
		out.Details = cl.Clone()
	}
	return out
}
