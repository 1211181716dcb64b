package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("existing email", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
			WithArgs("ada@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := NewUserRepository(db).Create(&models.User{Email: "ada@example.com", Username: "ada", PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique index wins a concurrent registration", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
			WithArgs("ada@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "users"`).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
		mock.ExpectRollback()

		err := NewUserRepository(db).Create(&models.User{Email: "ada@example.com", Username: "ada", PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other insert failures are not duplicates", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := NewUserRepository(db).Create(&models.User{Email: "ada@example.com", Username: "ada", PasswordHash: "x"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestChatRepository_AppendMessages(t *testing.T) {
	messages := func() []models.ChatMessage {
		now := time.Now()
		return []models.ChatMessage{
			{ID: 42, Sender: "user", Content: "I use goroutines.", Timestamp: now},
			{Sender: "interviewer", Content: "What about channels?", Timestamp: now},
		}
	}

	t.Run("no messages is a no-op", func(t *testing.T) {
		db, mock := newMockDB(t)

		require.NoError(t, NewChatRepository(db).AppendMessages("iv-1", nil, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("appends to the existing chat", func(t *testing.T) {
		db, mock := newMockDB(t)
		existing := uuid.New()

		mock.ExpectBegin()
		// The conflicting insert returns no rows.
		mock.ExpectQuery(`INSERT INTO "chats" .* ON CONFLICT \("interview_id"\) DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))
		mock.ExpectQuery(`SELECT \* FROM "chats" WHERE interview_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "interview_id"}).AddRow(existing, "iv-1"))
		mock.ExpectQuery(`INSERT INTO "chat_messages"`).
			WithArgs(
				existing, "user", "I use goroutines.", nil, sqlmock.AnyArg(),
				existing, "interviewer", "What about channels?", nil, sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
		mock.ExpectCommit()

		require.NoError(t, NewChatRepository(db).AppendMessages("iv-1", nil, messages()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed append rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "chats"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))
		mock.ExpectQuery(`SELECT \* FROM "chats"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "interview_id"}).AddRow(uuid.New(), "iv-1"))
		mock.ExpectQuery(`INSERT INTO "chat_messages"`).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := NewChatRepository(db).AppendMessages("iv-1", nil, messages())
		assert.ErrorContains(t, err, "failed to append chat messages")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
