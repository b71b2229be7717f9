package model

import (
	"github.com/google/uuid"
)

// ColumnLimit overrides the capacity of one column on one board.
// MaxItems of zero removes the bound.
type ColumnLimit struct {
	BoardID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status   string    `gorm:"primaryKey"`
	MaxItems int       `gorm:"not null;default:0"`
}
