package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// ReferenceZone is the fixed time zone used to bucket log entries into
// calendar days.
var ReferenceZone = time.UTC

// UnknownColumn substitutes for a missing column-name snapshot instead of
// failing the render.
const UnknownColumn = "Unknown Column"

// Narrative pairs a log entry with its rendered sentence.
type Narrative struct {
	Entry model.LogEntry
	Text  string
}

// DayGroup holds one calendar day of history, newest entries first.
type DayGroup struct {
	Date    string
	Entries []Narrative
}

// Renderer is the pure read side of the activity log. It only ever reads
// committed entries and never mutates them.
type Renderer struct {
	logs *repository.LogRepository
}

func NewRenderer(logs *repository.LogRepository) *Renderer {
	return &Renderer{logs: logs}
}

// ListByDate returns the entries created on day's calendar date in
// ReferenceZone, newest first.
func (r *Renderer) ListByDate(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]model.LogEntry, error) {
	d := day.In(ReferenceZone)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ReferenceZone)
	return r.logs.ListBetween(ctx, ownerID, start, start.AddDate(0, 0, 1))
}

// ListByCard returns every entry referencing a card, including entries for
// cards that no longer exist.
func (r *Renderer) ListByCard(ctx context.Context, cardID uuid.UUID) ([]model.LogEntry, error) {
	return r.logs.ListByCard(ctx, cardID)
}

// RecentSummary renders up to limit entries from the trailing window.
func (r *Renderer) RecentSummary(ctx context.Context, ownerID uuid.UUID, since time.Duration, limit int) ([]Narrative, error) {
	entries, err := r.logs.ListSince(ctx, ownerID, time.Now().Add(-since), limit)
	if err != nil {
		return nil, err
	}
	narratives := make([]Narrative, len(entries))
	for i, entry := range entries {
		narratives[i] = Narrative{Entry: entry, Text: Sentence(entry)}
	}
	return narratives, nil
}

// Narratives renders the full visible history grouped by calendar day,
// newest day first.
func (r *Renderer) Narratives(ctx context.Context, ownerID uuid.UUID) ([]DayGroup, error) {
	entries, err := r.logs.ListAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return GroupByDay(entries), nil
}

// GroupByDay buckets entries by their creation date in ReferenceZone.
// Input order (newest first) is preserved within and across groups.
func GroupByDay(entries []model.LogEntry) []DayGroup {
	var groups []DayGroup
	for _, entry := range entries {
		date := entry.CreatedAt.In(ReferenceZone).Format("2006-01-02")
		if len(groups) == 0 || groups[len(groups)-1].Date != date {
			groups = append(groups, DayGroup{Date: date})
		}
		last := &groups[len(groups)-1]
		last.Entries = append(last.Entries, Narrative{Entry: entry, Text: Sentence(entry)})
	}
	return groups
}

// Sentence maps an entry's action kind onto its fixed template.
func Sentence(e model.LogEntry) string {
	from := UnknownColumn
	if e.FromColumn != nil {
		from = *e.FromColumn
	}
	to := UnknownColumn
	if e.ToColumn != nil {
		to = *e.ToColumn
	}

	switch e.Action {
	case model.ActionCreated:
		return fmt.Sprintf("%q was created in %q", e.Title, to)
	case model.ActionDeleted:
		return fmt.Sprintf("%q was deleted from %q", e.Title, from)
	case model.ActionMovedColumn:
		return fmt.Sprintf("%q was moved from %q to %q", e.Title, from, to)
	case model.ActionMovedUp:
		return fmt.Sprintf("%q was moved up within the column %q", e.Title, from)
	case model.ActionMovedDown:
		return fmt.Sprintf("%q was moved down within the column %q", e.Title, from)
	default:
		return fmt.Sprintf("%q was updated", e.Title)
	}
}
