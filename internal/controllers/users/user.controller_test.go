package userController

import (
	"context"
	"testing"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"
	"hotelparadise/internal/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	repositories.UserRepository
	users map[uuid.UUID]*User
}

func (s *stubUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, types.NewNotFoundError("user not found")
	}
	return user, nil
}

func (s *stubUserRepo) ListByRole(ctx context.Context, tx *gorm.DB, role Role) ([]*User, error) {
	var users []*User
	for _, user := range s.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *stubUserRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, user *User, status bool) error {
	user.Status = status
	return nil
}

type stubTokenRepo struct {
	repositories.TokenRepository
	revoked map[uuid.UUID]int
}

func (s *stubTokenRepo) RevokeAllForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	tokenTypes ...TokenType,
) (int64, error) {
	s.revoked[userID]++
	return 2, nil
}

func setupUsers(t *testing.T) (UserControllerInterface, *stubUserRepo, *stubTokenRepo, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	db := database.NewWithSQL(gormDB)

	users := &stubUserRepo{users: map[uuid.UUID]*User{}}
	tokens := &stubTokenRepo{revoked: map[uuid.UUID]int{}}
	repos := repositories.Repository{User: users, Token: tokens}

	controller := New(repos, services.Service{
		Transaction: services.NewTransactionService(db),
		Session:     services.NewSessionService(db, repos, nil),
	}, config.Config{}, db)

	return controller, users, tokens, mock
}

func addUser(repo *stubUserRepo, name string, role Role) *User {
	user := &User{Name: name, Email: name + "@hotel.com", Role: role, Status: true}
	user.ID = uuid.New()
	repo.users[user.ID] = user
	return user
}

func TestUserController_Me(t *testing.T) {
	controller, users, _, _ := setupUsers(t)
	admin := addUser(users, "admin", RoleAdmin)

	response := controller.Me(context.Background(), admin)
	assert.Equal(t, admin.ID.String(), response.ID)
	assert.Equal(t, ClientRoleAdmin, response.Role)
}

func TestUserController_ListByRole(t *testing.T) {
	controller, users, _, _ := setupUsers(t)
	addUser(users, "admin", RoleAdmin)
	addUser(users, "lucia", RoleHousekeeper)
	addUser(users, "marta", RoleHousekeeper)

	tests := []struct {
		role    string
		want    int
		wantErr error
	}{
		{role: "ADMIN", want: 1},
		{role: "USER_ROLE", want: 2},
		{role: "housekeeper", want: 2},
		{role: "manager", wantErr: types.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			response, err := controller.ListByRole(context.Background(), tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, response, tt.want)
		})
	}
}

func TestUserController_UpdateStatus(t *testing.T) {
	controller, users, tokens, mock := setupUsers(t)
	admin := addUser(users, "admin", RoleAdmin)
	lucia := addUser(users, "lucia", RoleHousekeeper)
	inactive, active := false, true

	mock.ExpectBegin()
	mock.ExpectCommit()
	response, err := controller.UpdateStatus(context.Background(), admin, lucia.ID, StatusRequest{Status: &inactive})
	require.NoError(t, err)
	assert.False(t, response.Status)
	assert.Equal(t, 1, tokens.revoked[lucia.ID])

	mock.ExpectBegin()
	mock.ExpectCommit()
	response, err = controller.UpdateStatus(context.Background(), admin, lucia.ID, StatusRequest{Status: &active})
	require.NoError(t, err)
	assert.True(t, response.Status)
	assert.Equal(t, 1, tokens.revoked[lucia.ID])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserController_UpdateStatusRejected(t *testing.T) {
	controller, users, tokens, mock := setupUsers(t)
	admin := addUser(users, "admin", RoleAdmin)
	inactive := false

	tests := []struct {
		name    string
		id      uuid.UUID
		req     StatusRequest
		inTx    bool
		wantErr error
	}{
		{name: "Missing status", id: admin.ID, req: StatusRequest{}, wantErr: types.ErrValidation},
		{name: "Deactivate self", id: admin.ID, req: StatusRequest{Status: &inactive}, wantErr: types.ErrValidation},
		{name: "Unknown user", id: uuid.New(), req: StatusRequest{Status: &inactive}, inTx: true, wantErr: types.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.inTx {
				mock.ExpectBegin()
				mock.ExpectRollback()
			}
			response, err := controller.UpdateStatus(context.Background(), admin, tt.id, tt.req)
			assert.Nil(t, response)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, tokens.revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
