package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobtracker/internal/model"
)

// CardStore is the persistence contract of the board service.
type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error)
	Update(ctx context.Context, card *model.Card, prevVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithBoardLock(ctx context.Context, boardID uuid.UUID, fn func(CardStore) error) error
}

var _ CardStore = (*CardRepository)(nil)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(card).Error
}

// GetByID retrieves a card by its ID
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// GetByBoardID retrieves every card of a board in creation order
func (r *CardRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("created_at, id").Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// Update writes a card back, provided nobody changed it since prevVersion
func (r *CardRepository) Update(ctx context.Context, card *model.Card, prevVersion int64) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ? AND version = ?", card.ID, prevVersion).
		Updates(map[string]interface{}{
			"title":       card.Title,
			"description": card.Description,
			"status":      card.Status,
			"priority":    card.Priority,
			"due_date":    card.DueDate,
			"details":     card.Details,
			"version":     card.Version,
			"updated_at":  card.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleCard
	}
	return nil
}

// Delete removes a card by its ID
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// WithBoardLock runs fn in a transaction that holds a row lock on the board,
// so mutations of one board are serialized across server instances.
func (r *CardRepository) WithBoardLock(ctx context.Context, boardID uuid.UUID, fn func(CardStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board model.Board
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&board, "id = ?", boardID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBoardNotFound
			}
			return err
		}
		return fn(&CardRepository{db: tx})
	})
}
