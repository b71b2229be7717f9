package board

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced card does not exist
	ErrNotFound = errors.New("card not found")

	// ErrInvalidColumn is returned when a status does not match any defined column
	ErrInvalidColumn = errors.New("invalid column")

	// ErrCapacityExceeded is matched by every *CapacityExceededError
	ErrCapacityExceeded = errors.New("column capacity exceeded")

	// ErrConflict is returned when a card is no longer in the column the caller saw
	ErrConflict = errors.New("card was moved concurrently")

	ErrDuplicateCard  = errors.New("card already exists")
	ErrInvalidResult  = errors.New("invalid application result")
	ErrDragInProgress = errors.New("drag already in progress")
	ErrNoDrag         = errors.New("no drag in progress")
)

// CapacityExceededError names the full column and its limit.
type CapacityExceededError struct {
	Column Status
	Limit  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("column %q is full (max %d cards)", e.Column, e.Limit)
}

func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
