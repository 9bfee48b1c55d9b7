package repositories

import (
	"context"
	"testing"
	"time"

	. "hotelparadise/internal/models"
	"hotelparadise/internal/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestTokenRepository_RevokeAllForUser(t *testing.T) {
	tests := []struct {
		name       string
		tokenTypes []TokenType
		affected   int64
	}{
		{name: "All token types", affected: 3},
		{name: "Access tokens only", tokenTypes: []TokenType{TokenTypeAccess}, affected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			repo := NewTokenRepository(nil)

			digests := sqlmock.NewRows([]string{"token"})
			for i := int64(0); i < tt.affected; i++ {
				digests.AddRow(uuid.NewString())
			}
			mock.ExpectQuery(`SELECT "token" FROM "tokens" WHERE .*user_id = .*`).WillReturnRows(digests)
			mock.ExpectExec(`UPDATE "tokens" SET .*"expired"=.*"revoked"=.* WHERE .*user_id = .*`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			count, err := repo.RevokeAllForUser(context.Background(), db, uuid.New(), tt.tokenTypes...)

			require.NoError(t, err)
			assert.Equal(t, tt.affected, count)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTokenRepository_GetByDigest_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTokenRepository(nil)

	mock.ExpectQuery(`SELECT \* FROM "tokens" WHERE token = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	token, err := repo.GetByDigest(context.Background(), db, "digest")

	assert.Nil(t, token)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_ExpireCreatedBefore(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTokenRepository(nil)

	mock.ExpectQuery(`SELECT "token" FROM "tokens" WHERE .*created_at < .*`).
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("a").AddRow("b"))
	mock.ExpectExec(`UPDATE "tokens" SET "expired"=.* WHERE .*created_at < .*`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.ExpireCreatedBefore(context.Background(), db, TokenTypeAccess, time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_GetByID(t *testing.T) {
	id := uuid.New()

	t.Run("Found", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewRoomRepository()

		rows := sqlmock.NewRows([]string{"id", "room_number", "floor", "current_status"}).
			AddRow(id.String(), "305", "3", string(RoomStatusPendingCleaning))
		mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE id = .*`).WillReturnRows(rows)

		room, err := repo.GetByID(context.Background(), db, id)

		require.NoError(t, err)
		assert.Equal(t, "305", room.RoomNumber)
		assert.Equal(t, RoomStatusPendingCleaning, room.CurrentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing room is NotFound", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewRoomRepository()

		mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE id = .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		room, err := repo.GetByID(context.Background(), db, id)

		assert.Nil(t, room)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestRoomRepository_UpdateStatus(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRoomRepository()

	mock.ExpectExec(`UPDATE "rooms" SET .*"current_status"=.*"last_status_change"=.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), db, uuid.New(), RoomStatusClean, time.Now())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		notFound bool
	}{
		{name: "Own notification", affected: 1},
		{name: "Someone else's notification", affected: 0, notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			repo := NewNotificationRepository()

			mock.ExpectExec(`UPDATE "notifications" SET "is_read"=.* WHERE \(id = .* AND user_id = .*\)`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.MarkRead(context.Background(), db, uuid.New(), uuid.New())

			if tt.notFound {
				assert.ErrorIs(t, err, types.ErrNotFound)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID_WithoutCache(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserRepository(nil)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "status"}).
		AddRow(id.String(), "Admin", "admin@hotel.com", string(RoleAdmin), true)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = .*`).WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), db, id)

	require.NoError(t, err)
	assert.Equal(t, "admin@hotel.com", user.Email)
	assert.True(t, user.IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomAssignmentRepository_DeactivateAllForRoom_NoneActive(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRoomAssignmentRepository()

	mock.ExpectQuery(`SELECT \* FROM "room_assignments" WHERE \(room_id = .* AND active = .*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	deactivated, err := repo.DeactivateAllForRoom(context.Background(), db, uuid.New())

	assert.NoError(t, err)
	assert.Empty(t, deactivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}
