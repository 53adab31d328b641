package board_test

import (
	"context"
	"testing"

	"taskboard/internal/board"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func cardRows(id, columnID, ownerID uuid.UUID, title string, position int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "column_id", "owner_id", "title", "description", "tag_id", "position"}).
		AddRow(id.String(), columnID.String(), ownerID.String(), title, "", nil, position)
}

func columnRows(id uuid.UUID, ownerID *uuid.UUID, name string, position int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "owner_id", "name", "position"})
	if ownerID != nil {
		return rows.AddRow(id.String(), ownerID.String(), name, position)
	}
	return rows.AddRow(id.String(), nil, name, position)
}

func TestService_CreateCard_AppendsAtEnd(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(columnID, &ownerID, "Backlog", 1))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(position\), 0\) as max FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(cardID.String()))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	card, err := service.CreateCard(context.Background(), ownerID, board.CreateCardInput{
		ColumnID: columnID,
		Title:    "Task",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, card.Position)
	assert.Equal(t, cardID, card.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Перемещение карточки в ее собственную позицию: ни одного сдвига,
// одна запись журнала с действием updated.
func TestService_UpdateCard_SameSlotWritesNoShifts(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnRows(cardRows(cardID, columnID, ownerID, "Task", 2))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(columnID, &ownerID, "Backlog", 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	card, err := service.UpdateCard(context.Background(), ownerID, cardID, board.UpdateCardInput{
		Title:    "Task",
		ColumnID: columnID,
		Position: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, card.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateCard_MoveUpShiftsRange(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnRows(cardRows(cardID, columnID, ownerID, "Task C", 3))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(columnID, &ownerID, "Backlog", 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	// Освобождаем место: [1, 2] сдвигается на +1
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	card, err := service.UpdateCard(context.Background(), ownerID, cardID, board.UpdateCardInput{
		Title:    "Task C",
		ColumnID: columnID,
		Position: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, card.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateCard_CrossColumnShiftsBothSides(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	backlogID := uuid.New()
	doneID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnRows(cardRows(cardID, backlogID, ownerID, "Task X", 2))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(backlogID, &ownerID, "Backlog", 1))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(doneID, &ownerID, "Done", 2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	// Сначала место в колонке назначения, затем закрытие дыры в исходной
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	card, err := service.UpdateCard(context.Background(), ownerID, cardID, board.UpdateCardInput{
		Title:    "Task X",
		ColumnID: doneID,
		Position: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, doneID, card.ColumnID)
	assert.Equal(t, 1, card.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateCard_InvalidPositionRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnRows(cardRows(cardID, columnID, ownerID, "Task", 2))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(columnID, &ownerID, "Backlog", 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	_, err := service.UpdateCard(context.Background(), ownerID, cardID, board.UpdateCardInput{
		Title:    "Task",
		ColumnID: columnID,
		Position: 9,
	})

	assert.ErrorIs(t, err, board.ErrInvalidPosition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Отказ на записи карточки откатывает сдвиги и не оставляет записи в журнале.
func TestService_UpdateCard_WriteFailureRollsBackEverything(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnRows(cardRows(cardID, columnID, ownerID, "Task C", 3))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(columnID, &ownerID, "Backlog", 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := service.UpdateCard(context.Background(), ownerID, cardID, board.UpdateCardInput{
		Title:    "Task C",
		ColumnID: columnID,
		Position: 1,
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateCard_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	_, err := service.UpdateCard(context.Background(), ownerID, uuid.New(), board.UpdateCardInput{
		Title:    "Task",
		ColumnID: uuid.New(),
		Position: 1,
	})

	assert.ErrorIs(t, err, board.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateCard_ForbiddenForForeignCard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	requester := uuid.New()
	stranger := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnRows(cardRows(cardID, columnID, stranger, "Task", 1))
	mock.ExpectRollback()

	_, err := service.UpdateCard(context.Background(), requester, cardID, board.UpdateCardInput{
		Title:    "Task",
		ColumnID: columnID,
		Position: 1,
	})

	assert.ErrorIs(t, err, board.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_DeleteCard_ClosesGapAndLogs(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnRows(cardRows(cardID, columnID, ownerID, "Task", 2))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(columnID, &ownerID, "Backlog", 1))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "cards"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	err := service.DeleteCard(context.Background(), ownerID, cardID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateColumn_AppendsAtEnd(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()

	mock.ExpectBegin()
	// Существующий порядок в области видимости блокируется перед вставкой
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE owner_id = .* FOR UPDATE`).
		WillReturnRows(columnRows(uuid.New(), &ownerID, "Backlog", 1).
			AddRow(uuid.New().String(), ownerID.String(), "Done", 2))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(position\), 0\) as max FROM "columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO "columns"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(columnID.String()))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	column, err := service.CreateColumn(context.Background(), ownerID, "Review")

	require.NoError(t, err)
	assert.Equal(t, 3, column.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Обе стороны плана читаются под блокировкой строк, чтобы два
// пересекающихся перемещения в одной области не зафиксировались оба.
func TestService_UpdateCard_LocksSubjectAndColumns(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .* FOR UPDATE`).
		WillReturnRows(cardRows(cardID, columnID, ownerID, "Task C", 3))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .* FOR UPDATE`).
		WillReturnRows(columnRows(columnID, &ownerID, "Backlog", 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`UPDATE "cards" SET "position"=position \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "cards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	_, err := service.UpdateCard(context.Background(), ownerID, cardID, board.UpdateCardInput{
		Title:    "Task C",
		ColumnID: columnID,
		Position: 1,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Ссылка на несуществующую метку при обновлении — NotFound, а не ошибка
// внешнего ключа на записи.
func TestService_UpdateCard_UnknownTagIsNotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	ownerID := uuid.New()
	columnID := uuid.New()
	cardID := uuid.New()
	tagID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE id = .*`).
		WillReturnRows(cardRows(cardID, columnID, ownerID, "Task", 2))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnRows(columnRows(columnID, &ownerID, "Backlog", 1))
	mock.ExpectQuery(`SELECT .* FROM "tags" WHERE id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	_, err := service.UpdateCard(context.Background(), ownerID, cardID, board.UpdateCardInput{
		Title:    "Task",
		ColumnID: columnID,
		Position: 2,
		TagID:    &tagID,
	})

	assert.ErrorIs(t, err, board.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateCard_ColumnMissing(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	_, err := service.CreateCard(context.Background(), uuid.New(), board.CreateCardInput{
		ColumnID: uuid.New(),
		Title:    "Task",
	})

	assert.ErrorIs(t, err, board.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Общая колонка без владельца держит и чужие приватные карточки: каскад
// перечисляет все карточки колонки и логирует удаление каждой из них.
func TestService_DeleteColumn_LogsForeignCardsInSharedColumn(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	service := board.NewService(gormDB)

	requester := uuid.New()
	stranger := uuid.New()
	columnID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .* FOR UPDATE`).
		WillReturnRows(columnRows(columnID, nil, "Shared", 1))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE owner_id = .* FOR UPDATE`).
		WillReturnRows(columnRows(columnID, nil, "Shared", 1))
	// Перечисление без фильтра видимости: и своя, и чужая карточка
	mock.ExpectQuery(`SELECT .* FROM "cards" WHERE column_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "owner_id", "title", "position"}).
			AddRow(uuid.New().String(), columnID.String(), requester.String(), "Mine", 1).
			AddRow(uuid.New().String(), columnID.String(), stranger.String(), "Theirs", 2))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectExec(`DELETE FROM "cards"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "columns" SET "position"=position \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "columns"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "log_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	err := service.DeleteColumn(context.Background(), requester, columnID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
