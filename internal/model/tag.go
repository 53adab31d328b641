package model

import (
	"github.com/google/uuid"
)

type Tag struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OwnerID *uuid.UUID `gorm:"type:uuid;index"`
	Name    string     `gorm:"not null"`
	Color   string     `gorm:"not null"`

	Owner *User `gorm:"foreignKey:OwnerID"`
}
