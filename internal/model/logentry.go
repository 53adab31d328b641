package model

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry представляет неизменяемую запись одной мутации доски.
// Заголовок и имена колонок — снимки на момент мутации; запись
// переживает удаление карточки, поэтому CardID без внешнего ключа.
type LogEntry struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CardID       *uuid.UUID `gorm:"type:uuid;index"`
	Title        string     `gorm:"not null"`
	Action       string     `gorm:"not null"`
	FromColumn   *string
	ToColumn     *string
	FromPosition *int
	ToPosition   *int
	OwnerID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index"`
}

// Виды действий в журнале активности
const (
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionMovedColumn = "moved_column"
	ActionMovedUp     = "moved_up"
	ActionMovedDown   = "moved_down"
	ActionDeleted     = "deleted"
)
