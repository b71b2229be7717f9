package model

import (
	"time"

	"github.com/google/uuid"
)

// Board kinds select the column set and card payload.
const (
	KindTasks        = "tasks"
	KindApplications = "applications"
)

type Board struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	Kind        string    `gorm:"not null;check:kind IN ('tasks', 'applications')"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner User `gorm:"foreignKey:OwnerID"`
}
