package model

import (
	"github.com/google/uuid"
)

// Column is an ordered container of cards. A nil OwnerID marks a
// system-level column visible to every user.
type Column struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OwnerID  *uuid.UUID `gorm:"type:uuid;index"`
	Name     string     `gorm:"not null"`
	Position int        `gorm:"not null"`

	Owner *User `gorm:"foreignKey:OwnerID"`
}
