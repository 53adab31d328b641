package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

// LogRepository is append-only: entries are inserted once and never
// updated or deleted.
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Create appends one log entry
func (r *LogRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListAll retrieves every entry visible to ownerID, newest first
func (r *LogRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	result := r.db.WithContext(ctx).
		Where("owner_id = ? OR owner_id IS NULL", ownerID).
		Order("created_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// ListBetween retrieves entries created in [start, end), newest first
func (r *LogRepository) ListBetween(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	result := r.db.WithContext(ctx).
		Where("owner_id = ? OR owner_id IS NULL", ownerID).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// ListByCard retrieves every entry referencing a card, newest first.
// Entries outlive the card they describe.
func (r *LogRepository) ListByCard(ctx context.Context, cardID uuid.UUID) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	result := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("created_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// ListSince retrieves up to limit entries created after since, newest first
func (r *LogRepository) ListSince(ctx context.Context, ownerID uuid.UUID, since time.Time, limit int) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	result := r.db.WithContext(ctx).
		Where("owner_id = ? OR owner_id IS NULL", ownerID).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}
