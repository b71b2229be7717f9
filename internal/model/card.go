package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Card is the persisted form of a board card. Details holds the variant
// payload as JSON.
type Card struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BoardID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"not null"`
	Description string
	Status      string         `gorm:"not null;index"`
	Priority    string         `gorm:"not null"`
	DueDate     *time.Time
	Version     int64          `gorm:"not null;default:1"`
	Details     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
