package model

import (
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ColumnID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index"`
	Title       string     `gorm:"not null"`
	Description string
	TagID       *uuid.UUID `gorm:"type:uuid"`
	Position    int        `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Column Column `gorm:"foreignKey:ColumnID"`
	Tag    *Tag   `gorm:"foreignKey:TagID"`
}
