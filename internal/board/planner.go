package board

import (
	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// ShiftOp is one ranged position update to apply inside the current
// transaction. Upper is repository.NoUpperBound for open-ended shifts.
type ShiftOp struct {
	ColumnID uuid.UUID
	Lower    int
	Upper    int
	Delta    int
}

// CardPlan describes the writes needed to realize a requested card move:
// the shifts that keep both containers dense, the card's landing spot, and
// the action kind the audit log will record.
type CardPlan struct {
	Action   string
	Shifts   []ShiftOp
	ColumnID uuid.UUID
	Position int
}

// PlanCardMove computes the minimal shifts for moving card to destPos in
// destColumnID. destCount is the number of cards currently visible in the
// destination column. The destination position must lie in [1, N] for a
// same-column move and [1, N+1] across columns.
func PlanCardMove(card *model.Card, destColumnID uuid.UUID, destPos, destCount int) (*CardPlan, error) {
	if card.ColumnID == destColumnID {
		if destPos == card.Position {
			// No structural change; the mutation is a plain field update.
			return &CardPlan{
				Action:   model.ActionUpdated,
				ColumnID: destColumnID,
				Position: destPos,
			}, nil
		}
		if destPos < 1 || destPos > destCount {
			return nil, ErrInvalidPosition
		}
		if destPos < card.Position {
			// Moving up: everything in [dest, current) steps aside by +1.
			return &CardPlan{
				Action:   model.ActionMovedUp,
				ColumnID: destColumnID,
				Position: destPos,
				Shifts: []ShiftOp{
					{ColumnID: destColumnID, Lower: destPos, Upper: card.Position - 1, Delta: +1},
				},
			}, nil
		}
		// Moving down: everything in (current, dest] closes up by -1.
		return &CardPlan{
			Action:   model.ActionMovedDown,
			ColumnID: destColumnID,
			Position: destPos,
			Shifts: []ShiftOp{
				{ColumnID: destColumnID, Lower: card.Position + 1, Upper: destPos, Delta: -1},
			},
		}, nil
	}

	if destPos < 1 || destPos > destCount+1 {
		return nil, ErrInvalidPosition
	}
	// Cross-column: open a slot at the destination, close the gap left behind.
	return &CardPlan{
		Action:   model.ActionMovedColumn,
		ColumnID: destColumnID,
		Position: destPos,
		Shifts: []ShiftOp{
			{ColumnID: destColumnID, Lower: destPos, Upper: repository.NoUpperBound, Delta: +1},
			{ColumnID: card.ColumnID, Lower: card.Position + 1, Upper: repository.NoUpperBound, Delta: -1},
		},
	}, nil
}

// PlanCardRemoval is the degenerate move: close the gap the deleted card
// leaves behind, no destination side.
func PlanCardRemoval(card *model.Card) ShiftOp {
	return ShiftOp{
		ColumnID: card.ColumnID,
		Lower:    card.Position + 1,
		Upper:    repository.NoUpperBound,
		Delta:    -1,
	}
}

// ScopeShift is a ShiftOp one scope level up: column ordering within a
// user's visibility scope rather than card ordering within a column.
type ScopeShift struct {
	Lower int
	Upper int
	Delta int
}

// PlanColumnMove mirrors the same-container math for the board's column
// list. count is the number of columns in the scope.
func PlanColumnMove(current, dest, count int) (string, []ScopeShift, error) {
	if dest == current {
		return model.ActionUpdated, nil, nil
	}
	if dest < 1 || dest > count {
		return "", nil, ErrInvalidPosition
	}
	if dest < current {
		return model.ActionMovedUp, []ScopeShift{{Lower: dest, Upper: current - 1, Delta: +1}}, nil
	}
	return model.ActionMovedDown, []ScopeShift{{Lower: current + 1, Upper: dest, Delta: -1}}, nil
}
