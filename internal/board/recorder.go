package board

import (
	"context"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Recorder appends one immutable log entry per completed mutation. Titles
// and column names are captured as snapshots at call time, so renaming a
// column later never rewrites history.
type Recorder struct {
	logs *repository.LogRepository
}

func NewRecorder(logs *repository.LogRepository) *Recorder {
	return &Recorder{logs: logs}
}

func (r *Recorder) CardCreated(ctx context.Context, card *model.Card, column *model.Column) error {
	cardID := card.ID
	toPos := card.Position
	return r.logs.Create(ctx, &model.LogEntry{
		CardID:     &cardID,
		Title:      card.Title,
		Action:     model.ActionCreated,
		ToColumn:   columnName(column),
		ToPosition: &toPos,
		OwnerID:    card.OwnerID,
	})
}

// CardMoved records a move or in-place update. A plain update carries no
// column or position snapshots.
func (r *Recorder) CardMoved(ctx context.Context, action string, card *model.Card, from, to *model.Column, fromPos, toPos int) error {
	cardID := card.ID
	entry := &model.LogEntry{
		CardID:  &cardID,
		Title:   card.Title,
		Action:  action,
		OwnerID: card.OwnerID,
	}
	switch action {
	case model.ActionMovedColumn:
		entry.FromColumn = columnName(from)
		entry.ToColumn = columnName(to)
		entry.FromPosition = &fromPos
		entry.ToPosition = &toPos
	case model.ActionMovedUp, model.ActionMovedDown:
		entry.FromColumn = columnName(from)
		entry.FromPosition = &fromPos
		entry.ToPosition = &toPos
	}
	return r.logs.Create(ctx, entry)
}

func (r *Recorder) CardDeleted(ctx context.Context, card *model.Card, column *model.Column) error {
	cardID := card.ID
	fromPos := card.Position
	return r.logs.Create(ctx, &model.LogEntry{
		CardID:       &cardID,
		Title:        card.Title,
		Action:       model.ActionDeleted,
		FromColumn:   columnName(column),
		FromPosition: &fromPos,
		OwnerID:      card.OwnerID,
	})
}

// Column mutations log with the column name as the title snapshot and no
// card reference.
func (r *Recorder) ColumnCreated(ctx context.Context, column *model.Column) error {
	toPos := column.Position
	return r.logs.Create(ctx, &model.LogEntry{
		Title:      column.Name,
		Action:     model.ActionCreated,
		ToColumn:   columnName(column),
		ToPosition: &toPos,
		OwnerID:    column.OwnerID,
	})
}

func (r *Recorder) ColumnUpdated(ctx context.Context, action string, column *model.Column, fromPos, toPos int) error {
	entry := &model.LogEntry{
		Title:   column.Name,
		Action:  action,
		OwnerID: column.OwnerID,
	}
	if action == model.ActionMovedUp || action == model.ActionMovedDown {
		entry.FromPosition = &fromPos
		entry.ToPosition = &toPos
	}
	return r.logs.Create(ctx, entry)
}

func (r *Recorder) ColumnDeleted(ctx context.Context, column *model.Column) error {
	fromPos := column.Position
	return r.logs.Create(ctx, &model.LogEntry{
		Title:        column.Name,
		Action:       model.ActionDeleted,
		FromColumn:   columnName(column),
		FromPosition: &fromPos,
		OwnerID:      column.OwnerID,
	})
}

func columnName(c *model.Column) *string {
	if c == nil {
		return nil
	}
	name := c.Name
	return &name
}
