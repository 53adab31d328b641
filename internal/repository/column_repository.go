package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// GetByIDForUpdate retrieves a column with a row-level lock. Mutations lock
// the parent column row to serialize concurrent position changes among its
// cards. Only valid inside a transaction.
func (r *ColumnRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// GetVisible retrieves the columns visible to ownerID (own plus system-level),
// in position order
func (r *ColumnRepository) GetVisible(ctx context.Context, ownerID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Where("owner_id = ? OR owner_id IS NULL", ownerID).
		Order("position").
		Find(&columns).Error
	return columns, err
}

// GetVisibleForUpdate locks every column row in ownerID's visibility scope,
// in position order. Reordering within the scope locks the whole ordering
// first so overlapping shifts cannot interleave. Only valid inside a
// transaction.
func (r *ColumnRepository) GetVisibleForUpdate(ctx context.Context, ownerID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ? OR owner_id IS NULL", ownerID).
		Order("position").
		Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) GetMaxPosition(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Select("COALESCE(MAX(position), 0) as max").
		Where("owner_id = ? OR owner_id IS NULL", ownerID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

// ShiftRange applies delta to every column position in [lower, upper] within
// ownerID's visibility scope. An inverted range is a no-op; pass NoUpperBound
// for an open-ended shift.
func (r *ColumnRepository) ShiftRange(ctx context.Context, ownerID uuid.UUID, lower, upper, delta int) error {
	if lower > upper {
		return nil
	}
	query := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("owner_id = ? OR owner_id IS NULL", ownerID).
		Where("position >= ?", lower)
	if upper != NoUpperBound {
		query = query.Where("position <= ?", upper)
	}
	return query.Update("position", gorm.Expr("position + ?", delta)).Error
}

func (r *ColumnRepository) Update(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Save(column).Error
}

func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Column{}, "id = ?", id).Error
}
