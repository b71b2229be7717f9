package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"jobtracker/internal/board"
	"jobtracker/internal/model"
	"jobtracker/internal/repository"
)

// Drag sessions live in this process, one per (board, user). A client that
// lands on another instance mid-gesture simply starts over.
type dragKey struct {
	board uuid.UUID
	user  uuid.UUID
}

func (s *BoardService) dragSession(boardID, userID uuid.UUID, create bool) *board.DragSession {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()

	k := dragKey{board: boardID, user: userID}
	d, ok := s.drags[k]
	if !ok && create {
		d = &board.DragSession{}
		s.drags[k] = d
	}
	return d
}

// forgetDrag removes a finished gesture, unless the user has already
// started a new one in its place.
func (s *BoardService) forgetDrag(boardID, userID uuid.UUID, d *board.DragSession) {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()

	k := dragKey{board: boardID, user: userID}
	if s.drags[k] == d && !d.Active() {
		delete(s.drags, k)
	}
}

func (s *BoardService) dropDragSessions(boardID uuid.UUID) {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()

	for k := range s.drags {
		if k.board == boardID {
			delete(s.drags, k)
		}
	}
}

// DragStart picks up a card. Its current column becomes the gesture source.
func (s *BoardService) DragStart(ctx context.Context, userID, boardID uuid.UUID, cardID string) error {
	if _, err := s.authorize(ctx, userID, boardID, model.RoleEditor); err != nil {
		return err
	}
	id, err := uuid.Parse(cardID)
	if err != nil {
		return board.ErrNotFound
	}
	row, err := s.cards.GetByID(ctx, id)
	if errors.Is(err, repository.ErrCardNotFound) {
		return fmt.Errorf("%w: %s", board.ErrNotFound, cardID)
	}
	if err != nil {
		return fmt.Errorf("load card: %w", err)
	}
	if row.BoardID != boardID {
		return fmt.Errorf("%w: %s", board.ErrNotFound, cardID)
	}
	return s.dragSession(boardID, userID, true).Start(cardID, board.Status(row.Status))
}

func (s *BoardService) DragEnter(userID, boardID uuid.UUID, status board.Status) {
	if d := s.dragSession(boardID, userID, false); d != nil {
		d.Enter(status)
	}
}

func (s *BoardService) DragLeave(userID, boardID uuid.UUID) {
	if d := s.dragSession(boardID, userID, false); d != nil {
		d.Leave()
	}
}

// DragDrop ends the gesture on target and performs the move, guarded by the
// column the card was picked up from.
func (s *BoardService) DragDrop(ctx context.Context, userID, boardID uuid.UUID, target board.Status) (*Card, error) {
	d := s.dragSession(boardID, userID, false)
	if d == nil {
		return nil, board.ErrNoDrag
	}

	var moved *Card
	_, err := d.Drop(target, board.MoverFunc(func(id string, source, target board.Status) error {
		c, err := s.MoveCard(ctx, userID, boardID, id, target, source)
		moved = c
		return err
	}))
	s.forgetDrag(boardID, userID, d)
	if err != nil {
		return nil, err
	}
	return moved, nil
}

func (s *BoardService) DragCancel(userID, boardID uuid.UUID) {
	if d := s.dragSession(boardID, userID, false); d != nil {
		d.Cancel()
		s.forgetDrag(boardID, userID, d)
	}
}
