package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"jobtracker/internal/board"
	"jobtracker/internal/cache"
	"jobtracker/internal/model"
	"jobtracker/internal/repository"
)

// mutate runs fn against a freshly loaded engine while holding the board
// lock. The returned event is published once the transaction commits.
func (s *BoardService) mutate(
	ctx context.Context,
	userID, boardID uuid.UUID,
	fn func(ws workspace, store repository.CardStore) (*Event, error),
) error {
	b, err := s.authorize(ctx, userID, boardID, model.RoleEditor)
	if err != nil {
		return err
	}

	var ev *Event
	err = s.cards.WithBoardLock(ctx, boardID, func(store repository.CardStore) error {
		ws, err := s.load(ctx, b, store)
		if err != nil {
			return err
		}
		ev, err = fn(ws, store)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.InvalidatePattern(ctx, cache.BoardPattern(boardID.String()))
	if ev != nil {
		ev.BoardID = boardID.String()
		ev.ActorID = userID.String()
		s.publish(ctx, *ev)
	}
	return nil
}

// save writes back a card the engine changed; prev is the version it had
// when loaded.
func save(ctx context.Context, store repository.CardStore, boardID uuid.UUID, c Card, prev int64) error {
	row, err := toModel(boardID, c)
	if err != nil {
		return err
	}
	if err := store.Update(ctx, &row, prev); err != nil {
		if errors.Is(err, repository.ErrStaleCard) {
			return fmt.Errorf("%w: %v", board.ErrConflict, err)
		}
		return fmt.Errorf("save card: %w", err)
	}
	return nil
}

func (s *BoardService) CreateCard(ctx context.Context, userID, boardID uuid.UUID, in CardInput) (_ *Card, err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.CreateCard", trace.WithAttributes(
		attribute.String("board.id", boardID.String()),
	))
	defer func() { endSpan(span, err) }()

	var created Card
	err = s.mutate(ctx, userID, boardID, func(ws workspace, store repository.CardStore) (*Event, error) {
		c, err := ws.Add(in)
		if err != nil {
			return nil, err
		}
		row, err := toModel(boardID, c)
		if err != nil {
			return nil, err
		}
		if err := store.Create(ctx, &row); err != nil {
			return nil, fmt.Errorf("create card: %w", err)
		}
		created = c
		return &Event{Type: EventCardCreated, CardID: c.ID, To: c.Status}, nil
	})
	if err != nil {
		if errors.Is(err, board.ErrInvalidColumn) {
			s.logger.WithFields(log.Fields{"board_id": boardID, "status": in.Status}).Error("card created in unknown column")
		}
		return nil, err
	}
	return &created, nil
}

func (s *BoardService) EditCard(ctx context.Context, userID, boardID uuid.UUID, cardID string, patch CardPatch) (_ *Card, err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.EditCard", trace.WithAttributes(
		attribute.String("board.id", boardID.String()),
		attribute.String("card.id", cardID),
	))
	defer func() { endSpan(span, err) }()

	var edited Card
	err = s.mutate(ctx, userID, boardID, func(ws workspace, store repository.CardStore) (*Event, error) {
		c, err := ws.Edit(cardID, patch)
		if err != nil {
			return nil, err
		}
		if err := save(ctx, store, boardID, c, c.Version-1); err != nil {
			return nil, err
		}
		edited = c
		return &Event{Type: EventCardUpdated, CardID: c.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &edited, nil
}

func (s *BoardService) DeleteCard(ctx context.Context, userID, boardID uuid.UUID, cardID string) (err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.DeleteCard", trace.WithAttributes(
		attribute.String("board.id", boardID.String()),
		attribute.String("card.id", cardID),
	))
	defer func() { endSpan(span, err) }()

	return s.mutate(ctx, userID, boardID, func(ws workspace, store repository.CardStore) (*Event, error) {
		c, err := ws.Get(cardID)
		if err != nil {
			return nil, err
		}
		if err := ws.Remove(cardID); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(cardID)
		if err != nil {
			return nil, board.ErrNotFound
		}
		if err := store.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCardNotFound) {
				return nil, board.ErrNotFound
			}
			return nil, fmt.Errorf("delete card: %w", err)
		}
		return &Event{Type: EventCardDeleted, CardID: cardID, From: c.Status}, nil
	})
}

// MoveCard moves a card to target. When expectedFrom is set the move is
// refused with board.ErrConflict if the card has left that column.
func (s *BoardService) MoveCard(ctx context.Context, userID, boardID uuid.UUID, cardID string, target, expectedFrom board.Status) (_ *Card, err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.MoveCard", trace.WithAttributes(
		attribute.String("board.id", boardID.String()),
		attribute.String("card.id", cardID),
		attribute.String("target", string(target)),
	))
	defer func() { endSpan(span, err) }()

	var moved Card
	err = s.mutate(ctx, userID, boardID, func(ws workspace, store repository.CardStore) (*Event, error) {
		before, err := ws.Get(cardID)
		if err != nil {
			return nil, err
		}
		c, changed, err := ws.Move(cardID, expectedFrom, target)
		if err != nil {
			return nil, err
		}
		moved = c
		if !changed {
			return nil, nil
		}
		if err := save(ctx, store, boardID, c, before.Version); err != nil {
			return nil, err
		}
		return &Event{Type: EventCardMoved, CardID: c.ID, From: before.Status, To: c.Status}, nil
	})

	fields := log.Fields{"board_id": boardID, "card_id": cardID, "target": target}
	var capErr *board.CapacityExceededError
	switch {
	case err == nil:
		s.logger.WithFields(fields).Debug("card moved")
	case errors.Is(err, board.ErrInvalidColumn):
		s.logger.WithFields(fields).WithError(err).Error("move to unknown column")
	case errors.As(err, &capErr):
		s.logger.WithFields(fields).WithField("limit", capErr.Limit).Info("move rejected, column full")
	case errors.Is(err, board.ErrConflict):
		s.logger.WithFields(fields).Info("move rejected, card moved concurrently")
	}
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// UpdateResult records the outcome of an application card.
func (s *BoardService) UpdateResult(ctx context.Context, userID, boardID uuid.UUID, cardID string, result board.Result) (_ *Card, err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.UpdateResult", trace.WithAttributes(
		attribute.String("board.id", boardID.String()),
		attribute.String("card.id", cardID),
		attribute.String("result", string(result)),
	))
	defer func() { endSpan(span, err) }()

	var updated Card
	err = s.mutate(ctx, userID, boardID, func(ws workspace, store repository.CardStore) (*Event, error) {
		c, err := ws.UpdateResult(cardID, result)
		if err != nil {
			return nil, err
		}
		if err := save(ctx, store, boardID, c, c.Version-1); err != nil {
			return nil, err
		}
		updated = c
		return &Event{Type: EventCardUpdated, CardID: c.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
