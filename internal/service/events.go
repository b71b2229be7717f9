package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"jobtracker/internal/board"
)

const (
	EventCardCreated   = "card.created"
	EventCardUpdated   = "card.updated"
	EventCardMoved     = "card.moved"
	EventCardDeleted   = "card.deleted"
	EventColumnUpdated = "column.updated"
	EventBoardDeleted  = "board.deleted"
)

// Event tells live clients that a board changed. It is published only after
// the change is committed.
type Event struct {
	Type    string       `json:"type"`
	BoardID string       `json:"board_id"`
	CardID  string       `json:"card_id,omitempty"`
	From    board.Status `json:"from,omitempty"`
	To      board.Status `json:"to,omitempty"`
	ActorID string       `json:"actor_id"`
	At      time.Time    `json:"at"`
}

// publish never fails the operation; clients resync on their next read.
func (s *BoardService) publish(ctx context.Context, ev Event) {
	if s.events == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	if err := s.events.Publish(ctx, s.cfg.EventsChannel, ev); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event":    ev.Type,
			"board_id": ev.BoardID,
		}).Warn("failed to publish board event")
	}
}
