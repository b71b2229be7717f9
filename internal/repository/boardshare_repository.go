package repository

import (
	"context"
	"errors"

	"jobtracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardShareRepository struct {
	db *gorm.DB
}

func NewBoardShareRepository(db *gorm.DB) *BoardShareRepository {
	return &BoardShareRepository{db: db}
}

// ShareBoard grants userID the role on the board, replacing any earlier grant
func (r *BoardShareRepository) ShareBoard(ctx context.Context, boardID, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.BoardShare
		err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&existing).Error
		if err == nil {
			existing.Role = role
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.BoardShare{
			ID:      uuid.New(),
			BoardID: boardID,
			UserID:  userID,
			Role:    role,
		}).Error
	})
}

func (r *BoardShareRepository) RemoveShare(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("board_id = ? AND user_id = ?", boardID, userID).Delete(&model.BoardShare{}).Error
}

// GetBoardShares lists the grants of a board with their users preloaded
func (r *BoardShareRepository) GetBoardShares(ctx context.Context, boardID uuid.UUID) ([]model.BoardShare, error) {
	var shares []model.BoardShare
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Find(&shares).Error
	return shares, err
}

// GetSharedBoards lists boards other users shared with userID
func (r *BoardShareRepository) GetSharedBoards(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Joins("JOIN board_shares ON board_shares.board_id = boards.id").
		Where("board_shares.user_id = ?", userID).
		Find(&boards).Error
	return boards, err
}

// CheckAccess reports whether userID holds requiredRole or better on the board.
// Owners always pass.
func (r *BoardShareRepository) CheckAccess(ctx context.Context, boardID, userID uuid.UUID, requiredRole string) (bool, error) {
	var owned int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ? AND owner_id = ?", boardID, userID).
		Count(&owned).Error
	if err != nil {
		return false, err
	}
	if owned > 0 {
		return true, nil
	}

	var share model.BoardShare
	err = r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if requiredRole == model.RoleViewer {
		return true, nil
	}
	return share.Role == model.RoleEditor, nil
}
