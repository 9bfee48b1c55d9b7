package services

import (
	"context"
	"testing"
	"time"

	"hotelparadise/config"
	"hotelparadise/internal/events"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRoomRepo struct {
	repositories.RoomRepository
	rooms   map[uuid.UUID]*Room
	updates int
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
	s.updates++
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

func setupRoomState(t *testing.T, room *Room, active ...*RoomAssignment) (
	*RoomStateService,
	*stubRoomRepo,
	*events.EventBus,
) {
	bus := events.New(nil, config.Config{})
	t.Cleanup(func() { _ = bus.Close() })

	rooms := &stubRoomRepo{rooms: map[uuid.UUID]*Room{room.ID: room}}
	assignments := &stubAssignmentRepo{active: map[uuid.UUID][]*RoomAssignment{room.ID: active}}

	service := NewRoomStateService(repositories.Repository{
		Room:           rooms,
		RoomAssignment: assignments,
	}, bus)
	fixed := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	return service, rooms, bus
}

func newRoom(status RoomStatus) *Room {
	room := &Room{RoomNumber: "305", Floor: "3", CurrentStatus: status}
	room.ID = uuid.New()
	return room
}

func TestRoomStateService_Apply(t *testing.T) {
	tests := []struct {
		name        string
		status      RoomStatus
		event       RoomEvent
		wantStatus  RoomStatus
		wantChanged bool
	}{
		{
			name:        "cleaning from in use",
			status:      RoomStatusInUse,
			event:       CleaningRegistered{},
			wantStatus:  RoomStatusClean,
			wantChanged: true,
		},
		{
			name:        "incident blocks room",
			status:      RoomStatusPendingCleaning,
			event:       IncidentOpened{},
			wantStatus:  RoomStatusBlockedIncident,
			wantChanged: true,
		},
		{
			name:        "second incident leaves room blocked",
			status:      RoomStatusBlockedIncident,
			event:       IncidentOpened{},
			wantStatus:  RoomStatusBlockedIncident,
			wantChanged: false,
		},
		{
			name:        "resolve on unblocked room is ignored",
			status:      RoomStatusClean,
			event:       IncidentResolved{},
			wantStatus:  RoomStatusClean,
			wantChanged: false,
		},
		{
			name:   "scheduler skips blocked room",
			status: RoomStatusBlockedIncident,
			event: ScheduledCheck{
				Now:           time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
				ScheduledTime: 14 * time.Hour,
			},
			wantStatus:  RoomStatusBlockedIncident,
			wantChanged: false,
		},
		{
			name:        "manual override",
			status:      RoomStatusClean,
			event:       ManualOverride{Target: RoomStatusInUse},
			wantStatus:  RoomStatusInUse,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := newRoom(tt.status)
			service, rooms, _ := setupRoomState(t, room)

			change, err := service.Apply(context.Background(), nil, room.ID, tt.event)

			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, change.Changed)
			assert.Equal(t, tt.status, change.From)
			assert.Equal(t, tt.wantStatus, change.To)
			assert.Equal(t, tt.wantStatus, rooms.rooms[room.ID].CurrentStatus)
			if tt.wantChanged {
				assert.Equal(t, 1, rooms.updates)
				require.NotNil(t, change.Room.LastStatusChange)
			} else {
				assert.Equal(t, 0, rooms.updates)
			}
		})
	}
}

func TestRoomStateService_ApplyCleanReleasesAssignments(t *testing.T) {
	room := newRoom(RoomStatusPendingCleaning)
	assignment := &RoomAssignment{RoomID: room.ID, UserID: uuid.New(), Active: true}
	service, _, _ := setupRoomState(t, room, assignment)

	change, err := service.Apply(context.Background(), nil, room.ID, CleaningRegistered{})

	require.NoError(t, err)
	require.Len(t, change.Released, 1)
	assert.False(t, assignment.Active)
}

func TestRoomStateService_ApplyErrors(t *testing.T) {
	room := newRoom(RoomStatusClean)
	service, _, _ := setupRoomState(t, room)

	_, err := service.Apply(context.Background(), nil, room.ID, ManualOverride{Target: "DIRTY"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = service.Apply(context.Background(), nil, uuid.New(), CleaningRegistered{})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRoomStateService_Publish(t *testing.T) {
	room := newRoom(RoomStatusInUse)
	service, _, bus := setupRoomState(t, room)

	var received []events.Event
	require.NoError(t, bus.Subscribe(events.ROOM_STATUS_CHANNEL, func(event events.Event) error {
		received = append(received, event)
		return nil
	}))

	changed, err := service.Apply(context.Background(), nil, room.ID, IncidentOpened{})
	require.NoError(t, err)
	unchanged, err := service.Apply(context.Background(), nil, room.ID, IncidentOpened{})
	require.NoError(t, err)

	service.Publish(context.Background(), changed, unchanged, nil)

	require.Len(t, received, 1)
	assert.Equal(t, string(RoomStatusBlockedIncident), received[0].Data["status"])
	assert.Equal(t, "305", received[0].Data["roomNumber"])
}
