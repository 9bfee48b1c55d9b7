package cleaningController

import (
	"context"
	"testing"
	"time"

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

type stubRoomRepo struct {
	repositories.RoomRepository
	rooms map[uuid.UUID]*Room
}

func (s *stubRoomRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, types.NewNotFoundError("room not found")
	}
	copied := *room
	return &copied, nil
}

func (s *stubRoomRepo) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status RoomStatus,
	changedAt time.Time,
) error {
	s.rooms[id].CurrentStatus = status
	s.rooms[id].LastStatusChange = &changedAt
	return nil
}

type stubAssignmentRepo struct {
	repositories.RoomAssignmentRepository
	active map[uuid.UUID][]*RoomAssignment
}

func (s *stubAssignmentRepo) DeactivateAllForRoom(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
) ([]*RoomAssignment, error) {
	released := s.active[roomID]
	for _, assignment := range released {
		assignment.Active = false
	}
	delete(s.active, roomID)
	return released, nil
}

type stubCleaningRepo struct {
	repositories.CleaningRepository
	created []*Cleaning
	between [2]time.Time
}

func (s *stubCleaningRepo) Create(ctx context.Context, tx *gorm.DB, cleaning *Cleaning) error {
	cleaning.ID = uuid.New()
	s.created = append(s.created, cleaning)
	return nil
}

func (s *stubCleaningRepo) ListBetween(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]*Cleaning, error) {
	s.between = [2]time.Time{start, end}
	return nil, nil
}

type cleaningFixture struct {
	controller  *CleaningController
	rooms       *stubRoomRepo
	assignments *stubAssignmentRepo
	cleanings   *stubCleaningRepo
	mock        sqlmock.Sqlmock
}

func setupCleanings(t *testing.T) cleaningFixture {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	db := database.NewWithSQL(gormDB)

	rooms := &stubRoomRepo{rooms: map[uuid.UUID]*Room{}}
	assignments := &stubAssignmentRepo{active: map[uuid.UUID][]*RoomAssignment{}}
	cleanings := &stubCleaningRepo{}
	repos := repositories.Repository{Room: rooms, RoomAssignment: assignments, Cleaning: cleanings}

	controller := New(repos, services.Service{
		Transaction: services.NewTransactionService(db),
		RoomState:   services.NewRoomStateService(repos, nil),
	}, config.Config{HotelTimezone: "Europe/Madrid"}, db).(*CleaningController)

	return cleaningFixture{
		controller:  controller,
		rooms:       rooms,
		assignments: assignments,
		cleanings:   cleanings,
		mock:        mock,
	}
}

func TestCleaningController_RegisterCleansFromAnyStatus(t *testing.T) {
	housekeeper := &User{Role: RoleHousekeeper}
	housekeeper.ID = uuid.New()

	for _, status := range RoomStatuses {
		t.Run(string(status), func(t *testing.T) {
			f := setupCleanings(t)
			room := &Room{RoomNumber: "101", Floor: "1", CurrentStatus: status}
			room.ID = uuid.New()
			f.rooms.rooms[room.ID] = room
			f.assignments.active[room.ID] = []*RoomAssignment{
				{RoomID: room.ID, UserID: housekeeper.ID, Active: true},
				{RoomID: room.ID, UserID: uuid.New(), Active: true},
			}
			f.mock.ExpectBegin()
			f.mock.ExpectCommit()

			cleaning, err := f.controller.Register(context.Background(), housekeeper, CleaningRequest{RoomID: room.ID})
			require.NoError(t, err)

			assert.Equal(t, RoomStatusClean, f.rooms.rooms[room.ID].CurrentStatus)
			assert.Empty(t, f.assignments.active[room.ID])
			assert.Equal(t, CleaningSourceScan, cleaning.Source)
			assert.True(t, cleaning.IsSynced)
			assert.NotNil(t, cleaning.SyncedAt)
			assert.Equal(t, housekeeper.ID, cleaning.CleanedByUserID)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestCleaningController_RegisterOffline(t *testing.T) {
	f := setupCleanings(t)
	housekeeper := &User{Role: RoleHousekeeper}
	housekeeper.ID = uuid.New()
	room := &Room{RoomNumber: "201", Floor: "2", CurrentStatus: RoomStatusPendingCleaning}
	room.ID = uuid.New()
	f.rooms.rooms[room.ID] = room
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	cleaning, err := f.controller.Register(context.Background(), housekeeper, CleaningRequest{
		RoomID:           room.ID,
		CleaningDatetime: "2026-03-10T08:15:00",
		Source:           "manual",
		IsOffline:        true,
	})
	require.NoError(t, err)

	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	assert.Equal(t, CleaningSourceManual, cleaning.Source)
	assert.True(t, cleaning.IsOffline)
	assert.False(t, cleaning.IsSynced)
	assert.Nil(t, cleaning.SyncedAt)
	assert.True(t, time.Date(2026, 3, 10, 8, 15, 0, 0, madrid).Equal(cleaning.CleaningDatetime))
}

func TestCleaningController_RegisterRejected(t *testing.T) {
	f := setupCleanings(t)
	housekeeper := &User{Role: RoleHousekeeper}

	tests := []struct {
		name    string
		req     CleaningRequest
		wantErr error
	}{
		{name: "Missing room", req: CleaningRequest{}, wantErr: types.ErrValidation},
		{name: "Unknown source", req: CleaningRequest{RoomID: uuid.New(), Source: "ROBOT"}, wantErr: types.ErrValidation},
		{name: "Bad datetime", req: CleaningRequest{RoomID: uuid.New(), CleaningDatetime: "yesterday"}, wantErr: types.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.controller.Register(context.Background(), housekeeper, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("Room not found", func(t *testing.T) {
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.controller.Register(context.Background(), housekeeper, CleaningRequest{RoomID: uuid.New()})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Empty(t, f.cleanings.created)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestCleaningController_ListBetween(t *testing.T) {
	f := setupCleanings(t)
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	_, err = f.controller.ListBetween(context.Background(), "2026-03-01", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 3, 1, 0, 0, 0, 0, madrid).Equal(f.cleanings.between[0]))
	assert.True(t, time.Date(2026, 3, 3, 0, 0, 0, 0, madrid).Add(-time.Nanosecond).Equal(f.cleanings.between[1]))

	_, err = f.controller.ListBetween(context.Background(), "2026-03-02T10:00:00", "2026-03-01T10:00:00")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = f.controller.ListBetween(context.Background(), "", "2026-03-01")
	assert.ErrorIs(t, err, types.ErrValidation)
}
