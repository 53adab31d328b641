package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

var (
	ErrCardNotFound = errors.New("card not found")
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
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

// GetByIDForUpdate retrieves a card with a row-level lock. Only valid
// inside a transaction.
func (r *CardRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

// ListByColumn retrieves every card in a column regardless of owner, in
// position order. Shared columns hold other users' private cards too.
func (r *CardRepository) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("column_id = ?", columnID).
		Order("position").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// GetByColumnID retrieves the cards visible to ownerID in a column, in position order
func (r *CardRepository) GetByColumnID(ctx context.Context, columnID, ownerID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).
		Where("column_id = ? AND (owner_id = ? OR owner_id IS NULL)", columnID, ownerID).
		Order("position").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// CountInColumn counts the cards visible to ownerID in a column
func (r *CardRepository) CountInColumn(ctx context.Context, columnID, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("column_id = ? AND (owner_id = ? OR owner_id IS NULL)", columnID, ownerID).
		Count(&count).Error
	return count, err
}

// MaxPosition returns the highest occupied position in a column, 0 when empty
func (r *CardRepository) MaxPosition(ctx context.Context, columnID, ownerID uuid.UUID) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("COALESCE(MAX(position), 0) as max").
		Where("column_id = ? AND (owner_id = ? OR owner_id IS NULL)", columnID, ownerID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

// ShiftRange applies delta to every position in [lower, upper] within a
// column's visibility scope as one multi-row update. An inverted range is
// a no-op; pass NoUpperBound for an open-ended shift.
func (r *CardRepository) ShiftRange(ctx context.Context, columnID, ownerID uuid.UUID, lower, upper, delta int) error {
	if lower > upper {
		return nil
	}
	query := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("column_id = ? AND (owner_id = ? OR owner_id IS NULL)", columnID, ownerID).
		Where("position >= ?", lower)
	if upper != NoUpperBound {
		query = query.Where("position <= ?", upper)
	}
	return query.Update("position", gorm.Expr("position + ?", delta)).Error
}

// Update updates an existing card
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	result := r.db.WithContext(ctx).Save(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
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

// DeleteByColumnID removes every card in a column
func (r *CardRepository) DeleteByColumnID(ctx context.Context, columnID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Card{}, "column_id = ?", columnID).Error
}
