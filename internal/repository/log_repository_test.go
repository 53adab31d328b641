package repository_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLogRepository_Create(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	logRepo := repository.NewLogRepository(gormDB)

	entryID := uuid.New()
	cardID := uuid.New()
	toColumn := "Backlog"
	toPosition := 1

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(entryID.String()))
	mock.ExpectCommit()

	// Act
	err := logRepo.Create(context.Background(), &model.LogEntry{
		CardID:     &cardID,
		Title:      "Task",
		Action:     model.ActionCreated,
		ToColumn:   &toColumn,
		ToPosition: &toPosition,
	})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogRepository_ListByCard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	logRepo := repository.NewLogRepository(gormDB)

	cardID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM "log_entries" WHERE card_id = .* ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "title", "action", "from_column", "created_at"}).
			AddRow(uuid.New().String(), cardID.String(), "Task", model.ActionDeleted, "Backlog", now).
			AddRow(uuid.New().String(), cardID.String(), "Task", model.ActionCreated, nil, now.Add(-time.Hour)))

	// Act
	entries, err := logRepo.ListByCard(context.Background(), cardID)

	// Assert - записи переживают удаление карточки
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, model.ActionDeleted, entries[0].Action)
	assert.Equal(t, model.ActionCreated, entries[1].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
