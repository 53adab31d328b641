package board

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Service is the only entry point for position-affecting mutations. Every
// operation runs as one transaction: load current state, plan, apply the
// position shifts, write the entity, append exactly one log entry. A failure
// at any step rolls the whole unit back, so no partial shift or orphaned log
// entry is ever visible to another transaction.
//
// State is always re-read inside the transaction; nothing is cached between
// calls.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateCardInput struct {
	ColumnID    uuid.UUID
	Title       string
	Description string
	TagID       *uuid.UUID
}

// UpdateCardInput covers in-place edits and moves with one request shape.
// ColumnID and Position name the destination; keeping them at the card's
// current values makes the call a plain update.
type UpdateCardInput struct {
	Title       string
	Description string
	ColumnID    uuid.UUID
	Position    int
	TagID       *uuid.UUID
}

type UpdateColumnInput struct {
	Name     *string
	Position *int
}

// canTouch reports whether requester may mutate a row owned by rowOwner.
// Owner-less rows are shared system-level entities, open to everyone.
func canTouch(rowOwner *uuid.UUID, requester uuid.UUID) bool {
	return rowOwner == nil || *rowOwner == requester
}

// checkTag verifies a referenced tag exists before the card write, so a
// stale reference comes back as ErrNotFound instead of an FK violation.
func checkTag(ctx context.Context, tx *gorm.DB, tagID *uuid.UUID) error {
	if tagID == nil {
		return nil
	}
	if _, err := repository.NewTagRepository(tx).GetByID(ctx, *tagID); err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// CreateCard appends a card at the end of the destination column.
func (s *Service) CreateCard(ctx context.Context, ownerID uuid.UUID, in CreateCardInput) (*model.Card, error) {
	var created *model.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		columns := repository.NewColumnRepository(tx)
		cards := repository.NewCardRepository(tx)

		// Locking the parent column row serializes every position change
		// among its cards, appends included.
		column, err := columns.GetByIDForUpdate(ctx, in.ColumnID)
		if err != nil {
			if errors.Is(err, repository.ErrColumnNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !canTouch(column.OwnerID, ownerID) {
			return ErrForbidden
		}

		if err := checkTag(ctx, tx, in.TagID); err != nil {
			return err
		}

		maxPos, err := cards.MaxPosition(ctx, in.ColumnID, ownerID)
		if err != nil {
			return err
		}

		owner := ownerID
		card := &model.Card{
			ColumnID:    in.ColumnID,
			OwnerID:     &owner,
			Title:       in.Title,
			Description: in.Description,
			TagID:       in.TagID,
			Position:    maxPos + 1,
		}
		if err := cards.Create(ctx, card); err != nil {
			return err
		}

		recorder := NewRecorder(repository.NewLogRepository(tx))
		if err := recorder.CardCreated(ctx, card, column); err != nil {
			return err
		}

		created = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateCard applies field edits and, when the destination differs from the
// card's current slot, the planned position shifts in source and destination.
func (s *Service) UpdateCard(ctx context.Context, ownerID, cardID uuid.UUID, in UpdateCardInput) (*model.Card, error) {
	var updated *model.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cards := repository.NewCardRepository(tx)
		columns := repository.NewColumnRepository(tx)

		card, err := cards.GetByIDForUpdate(ctx, cardID)
		if err != nil {
			if errors.Is(err, repository.ErrCardNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !canTouch(card.OwnerID, ownerID) {
			return ErrForbidden
		}

		// Both column rows are locked so two overlapping moves in the same
		// scope serialize instead of interleaving their shifts.
		source, err := columns.GetByIDForUpdate(ctx, card.ColumnID)
		if err != nil {
			if errors.Is(err, repository.ErrColumnNotFound) {
				return ErrNotFound
			}
			return err
		}

		dest := source
		if in.ColumnID != card.ColumnID {
			dest, err = columns.GetByIDForUpdate(ctx, in.ColumnID)
			if err != nil {
				if errors.Is(err, repository.ErrColumnNotFound) {
					return ErrNotFound
				}
				return err
			}
			if !canTouch(dest.OwnerID, ownerID) {
				return ErrForbidden
			}
		}

		if err := checkTag(ctx, tx, in.TagID); err != nil {
			return err
		}

		destCount, err := cards.CountInColumn(ctx, in.ColumnID, ownerID)
		if err != nil {
			return err
		}

		plan, err := PlanCardMove(card, in.ColumnID, in.Position, int(destCount))
		if err != nil {
			return err
		}

		for _, shift := range plan.Shifts {
			if err := cards.ShiftRange(ctx, shift.ColumnID, ownerID, shift.Lower, shift.Upper, shift.Delta); err != nil {
				return err
			}
		}

		fromPos := card.Position
		card.Title = in.Title
		card.Description = in.Description
		card.TagID = in.TagID
		card.ColumnID = plan.ColumnID
		card.Position = plan.Position
		if err := cards.Update(ctx, card); err != nil {
			return err
		}

		recorder := NewRecorder(repository.NewLogRepository(tx))
		if err := recorder.CardMoved(ctx, plan.Action, card, source, dest, fromPos, plan.Position); err != nil {
			return err
		}

		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCard removes a card and closes the position gap it leaves behind.
func (s *Service) DeleteCard(ctx context.Context, ownerID, cardID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cards := repository.NewCardRepository(tx)
		columns := repository.NewColumnRepository(tx)

		card, err := cards.GetByIDForUpdate(ctx, cardID)
		if err != nil {
			if errors.Is(err, repository.ErrCardNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !canTouch(card.OwnerID, ownerID) {
			return ErrForbidden
		}

		column, err := columns.GetByIDForUpdate(ctx, card.ColumnID)
		if err != nil {
			if errors.Is(err, repository.ErrColumnNotFound) {
				return ErrNotFound
			}
			return err
		}

		shift := PlanCardRemoval(card)
		if err := cards.ShiftRange(ctx, shift.ColumnID, ownerID, shift.Lower, shift.Upper, shift.Delta); err != nil {
			return err
		}

		if err := cards.Delete(ctx, cardID); err != nil {
			return err
		}

		recorder := NewRecorder(repository.NewLogRepository(tx))
		return recorder.CardDeleted(ctx, card, column)
	})
}

// CreateColumn appends a column at the end of the owner's board.
func (s *Service) CreateColumn(ctx context.Context, ownerID uuid.UUID, name string) (*model.Column, error) {
	var created *model.Column
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		columns := repository.NewColumnRepository(tx)

		// Appends to the scope lock the existing ordering first.
		if _, err := columns.GetVisibleForUpdate(ctx, ownerID); err != nil {
			return err
		}

		maxPos, err := columns.GetMaxPosition(ctx, ownerID)
		if err != nil {
			return err
		}

		owner := ownerID
		column := &model.Column{
			OwnerID:  &owner,
			Name:     name,
			Position: maxPos + 1,
		}
		if err := columns.Create(ctx, column); err != nil {
			return err
		}

		recorder := NewRecorder(repository.NewLogRepository(tx))
		if err := recorder.ColumnCreated(ctx, column); err != nil {
			return err
		}

		created = column
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateColumn renames and/or reorders a column within the owner's scope.
func (s *Service) UpdateColumn(ctx context.Context, ownerID, columnID uuid.UUID, in UpdateColumnInput) (*model.Column, error) {
	var updated *model.Column
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		columns := repository.NewColumnRepository(tx)

		column, err := columns.GetByIDForUpdate(ctx, columnID)
		if err != nil {
			if errors.Is(err, repository.ErrColumnNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !canTouch(column.OwnerID, ownerID) {
			return ErrForbidden
		}

		action := model.ActionUpdated
		fromPos := column.Position
		if in.Position != nil && *in.Position != column.Position {
			// Reordering locks the whole visible ordering up front.
			visible, err := columns.GetVisibleForUpdate(ctx, ownerID)
			if err != nil {
				return err
			}

			var shifts []ScopeShift
			action, shifts, err = PlanColumnMove(column.Position, *in.Position, len(visible))
			if err != nil {
				return err
			}
			for _, shift := range shifts {
				if err := columns.ShiftRange(ctx, ownerID, shift.Lower, shift.Upper, shift.Delta); err != nil {
					return err
				}
			}
			column.Position = *in.Position
		}
		if in.Name != nil {
			column.Name = *in.Name
		}

		if err := columns.Update(ctx, column); err != nil {
			return err
		}

		recorder := NewRecorder(repository.NewLogRepository(tx))
		if err := recorder.ColumnUpdated(ctx, action, column, fromPos, column.Position); err != nil {
			return err
		}

		updated = column
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteColumn removes a column and every card in it. Each cascaded card
// deletion gets its own log entry; card positions inside the dying column
// are not re-shifted since the whole scope disappears with it.
func (s *Service) DeleteColumn(ctx context.Context, ownerID, columnID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		columns := repository.NewColumnRepository(tx)
		cards := repository.NewCardRepository(tx)

		column, err := columns.GetByIDForUpdate(ctx, columnID)
		if err != nil {
			if errors.Is(err, repository.ErrColumnNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !canTouch(column.OwnerID, ownerID) {
			return ErrForbidden
		}

		if _, err := columns.GetVisibleForUpdate(ctx, ownerID); err != nil {
			return err
		}

		// A shared column can hold other users' private cards; those go
		// down with the column too and every one of them gets logged.
		orphans, err := cards.ListByColumn(ctx, columnID)
		if err != nil {
			return err
		}

		recorder := NewRecorder(repository.NewLogRepository(tx))
		for i := range orphans {
			if err := recorder.CardDeleted(ctx, &orphans[i], column); err != nil {
				return err
			}
		}

		if err := cards.DeleteByColumnID(ctx, columnID); err != nil {
			return err
		}

		if err := columns.ShiftRange(ctx, ownerID, column.Position+1, repository.NoUpperBound, -1); err != nil {
			return err
		}

		if err := columns.Delete(ctx, columnID); err != nil {
			return err
		}

		return recorder.ColumnDeleted(ctx, column)
	})
}
