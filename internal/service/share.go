package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"jobtracker/internal/model"
)

type ShareView struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsOwner bool   `json:"is_owner"`
}

// Share grants the user with email a role on a board. Only the owner may share.
func (s *BoardService) Share(ctx context.Context, ownerID, boardID uuid.UUID, email, role string) error {
	if role != model.RoleViewer && role != model.RoleEditor {
		return fmt.Errorf("%w: role must be viewer or editor", ErrValidation)
	}
	b, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if b.OwnerID != ownerID {
		return ErrForbidden
	}

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ID == ownerID {
		return fmt.Errorf("%w: cannot share a board with its owner", ErrValidation)
	}

	if err := s.shares.ShareBoard(ctx, boardID, user.ID, role); err != nil {
		return fmt.Errorf("share board: %w", err)
	}
	s.cache.Delete(ctx, boardListKey(user.ID))
	s.logger.WithFields(log.Fields{"board_id": boardID, "user_id": user.ID, "role": role}).Info("board shared")
	return nil
}

func (s *BoardService) Unshare(ctx context.Context, ownerID, boardID, userID uuid.UUID) error {
	b, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if b.OwnerID != ownerID {
		return ErrForbidden
	}
	if err := s.shares.RemoveShare(ctx, boardID, userID); err != nil {
		return fmt.Errorf("remove share: %w", err)
	}
	s.cache.Delete(ctx, boardListKey(userID))

	s.dragMu.Lock()
	delete(s.drags, dragKey{board: boardID, user: userID})
	s.dragMu.Unlock()
	return nil
}

// Shares lists everyone with access to a board, owner first.
func (s *BoardService) Shares(ctx context.Context, userID, boardID uuid.UUID) ([]ShareView, error) {
	b, err := s.authorize(ctx, userID, boardID, model.RoleViewer)
	if err != nil {
		return nil, err
	}

	var out []ShareView
	owner, err := s.users.GetByID(ctx, b.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	if owner != nil {
		out = append(out, ShareView{
			UserID:  owner.ID.String(),
			Email:   owner.Email,
			Name:    owner.Name,
			Role:    "owner",
			IsOwner: true,
		})
	}

	shares, err := s.shares.GetBoardShares(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("load shares: %w", err)
	}
	for _, sh := range shares {
		out = append(out, ShareView{
			UserID: sh.UserID.String(),
			Email:  sh.User.Email,
			Name:   sh.User.Name,
			Role:   sh.Role,
		})
	}
	return out, nil
}
