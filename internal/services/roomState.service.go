package services

import (
	"context"
	"errors"
	"time"

	"hotelparadise/internal/events"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomChange describes the outcome of applying one event to a room.
type RoomChange struct {
	Room     *Room
	Event    string
	From     RoomStatus
	To       RoomStatus
	Changed  bool
	Released []*RoomAssignment
}

// RoomStateService is the only writer of Room.CurrentStatus. Every trigger
// site (cleanings, incidents, overrides and the scheduler) goes through Apply.
type RoomStateService struct {
	rooms       repositories.RoomRepository
	assignments repositories.RoomAssignmentRepository
	eventBus    *events.EventBus
	now         func() time.Time
	log         logger.Logger
}

func NewRoomStateService(repos repositories.Repository, eventBus *events.EventBus) *RoomStateService {
	return &RoomStateService{
		rooms:       repos.Room,
		assignments: repos.RoomAssignment,
		eventBus:    eventBus,
		now:         time.Now,
		log:         logger.New("roomStateService"),
	}
}

// Apply locks the room row, runs Transition and persists the result inside tx.
// A rejected scheduler or incident event is not an error: the room is left
// untouched and Changed is false. A rejected manual override is a
// validation error. Entering CLEAN releases the room's active assignments.
func (s *RoomStateService) Apply(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
	event RoomEvent,
) (*RoomChange, error) {
	log := s.log.TraceFromContext(ctx).Function("Apply")

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}

	// The caller's snapshot may be stale; judge the check against the locked row.
	if check, ok := event.(ScheduledCheck); ok {
		check.LastChange = room.LastStatusChange
		event = check
	}

	change := &RoomChange{
		Room:  room,
		Event: event.EventName(),
		From:  room.CurrentStatus,
		To:    room.CurrentStatus,
	}

	next, err := Transition(room.CurrentStatus, event)
	if errors.Is(err, ErrTransitionRejected) {
		if _, ok := event.(ManualOverride); ok {
			return nil, types.NewValidationError("invalid room status")
		}
		log.Debug("Transition rejected", "roomID", roomID, "status", room.CurrentStatus, "event", change.Event)
		return change, nil
	}
	if err != nil {
		return nil, err
	}

	changedAt := s.now()
	if err := s.rooms.UpdateStatus(ctx, tx, room.ID, next, changedAt); err != nil {
		return nil, err
	}

	room.CurrentStatus = next
	room.LastStatusChange = &changedAt
	change.To = next
	change.Changed = true

	if next == RoomStatusClean {
		released, err := s.assignments.DeactivateAllForRoom(ctx, tx, room.ID)
		if err != nil {
			return nil, err
		}
		change.Released = released
	}

	log.Info(
		"Room status changed",
		"roomID", room.ID,
		"roomNumber", room.RoomNumber,
		"from", change.From,
		"to", change.To,
		"event", change.Event,
		"released", len(change.Released),
	)

	return change, nil
}

// Publish announces committed changes to connected clients. Call it only
// after the transaction that produced the changes has committed.
func (s *RoomStateService) Publish(ctx context.Context, changes ...*RoomChange) {
	log := s.log.TraceFromContext(ctx).Function("Publish")

	if s.eventBus == nil {
		return
	}

	for _, change := range changes {
		if change == nil || !change.Changed {
			continue
		}

		err := s.eventBus.Publish(events.ROOM_STATUS_CHANNEL, events.Event{
			Type: events.ROOM_STATUS,
			Data: map[string]any{
				"roomId":     change.Room.ID.String(),
				"roomNumber": change.Room.RoomNumber,
				"floor":      change.Room.Floor,
				"from":       string(change.From),
				"status":     string(change.To),
				"event":      change.Event,
				"changedAt":  change.Room.LastStatusChange,
			},
		})
		if err != nil {
			log.Er("failed to publish room status", err, "roomID", change.Room.ID)
		}
	}
}
