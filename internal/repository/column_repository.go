package repository

import (
	"context"

	"jobtracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ColumnRepository stores per-board capacity overrides
type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.ColumnLimit, error) {
	var limits []model.ColumnLimit
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Find(&limits).Error
	return limits, err
}

// SetLimit inserts or replaces the limit of one column
func (r *ColumnRepository) SetLimit(ctx context.Context, limit *model.ColumnLimit) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "board_id"}, {Name: "status"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_items"}),
	}).Create(limit).Error
}
