package assignmentController

import (
	"context"
	"fmt"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"
	"hotelparadise/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	assignedTitle        = "Nueva asignación"
	assignedBodyFormat   = "Se te ha asignado la habitación %s (piso %s)"
	unassignedTitle      = "Asignación cancelada"
	unassignedBodyFormat = "Se ha cancelado tu asignación de la habitación %s"
)

type AssignmentRequest struct {
	RoomID uuid.UUID `json:"roomId"`
	UserID uuid.UUID `json:"userId"`
}

type AssignmentControllerInterface interface {
	Create(ctx context.Context, admin *User, req AssignmentRequest) (*RoomAssignment, error)
	Deactivate(ctx context.Context, admin *User, id uuid.UUID) error
	DeletePermanently(ctx context.Context, admin *User, id uuid.UUID) error
	ListActive(ctx context.Context) ([]*RoomAssignment, error)
	ListByUser(ctx context.Context, requester *User, userID uuid.UUID) ([]*RoomAssignment, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*RoomAssignment, error)
}

// AssignmentController keeps at most one active assignment per room.
type AssignmentController struct {
	assignmentRepo repositories.RoomAssignmentRepository
	roomRepo       repositories.RoomRepository
	userRepo       repositories.UserRepository
	notification   *services.NotificationService
	transaction    *services.TransactionService
	db             database.DB
	log            logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) AssignmentControllerInterface {
	return &AssignmentController{
		assignmentRepo: repos.RoomAssignment,
		roomRepo:       repos.Room,
		userRepo:       repos.User,
		notification:   services.Notification,
		transaction:    services.Transaction,
		db:             db,
		log:            logger.New("assignmentController"),
	}
}

// Create assigns a room to a housekeeper. A clean room has no work to assign.
// Whoever held the room before is unassigned and told so.
func (ac *AssignmentController) Create(
	ctx context.Context,
	admin *User,
	req AssignmentRequest,
) (*RoomAssignment, error) {
	log := ac.log.Function("Create").TraceFromContext(ctx)

	if req.RoomID == uuid.Nil || req.UserID == uuid.Nil {
		return nil, types.NewValidationError("roomId and userId are required")
	}

	var assignment *RoomAssignment
	var deliveries []*services.Delivery
	err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		room, err := ac.roomRepo.GetByIDForUpdate(ctx, tx, req.RoomID)
		if err != nil {
			return err
		}
		if room.CurrentStatus == RoomStatusClean {
			return types.NewValidationError("room %s is clean, there is no work to assign", room.RoomNumber)
		}

		user, err := ac.userRepo.GetByID(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if !user.Status {
			return types.NewValidationError("user is inactive")
		}

		released, err := ac.assignmentRepo.DeactivateAllForRoom(ctx, tx, room.ID)
		if err != nil {
			return err
		}
		for _, previous := range released {
			if previous.UserID == user.ID || previous.User == nil {
				continue
			}
			delivery, err := ac.notification.Create(
				ctx, tx, previous.User, NotificationTypeUnassignment,
				unassignedTitle, fmt.Sprintf(unassignedBodyFormat, room.RoomNumber),
			)
			if err != nil {
				return err
			}
			deliveries = append(deliveries, delivery)
		}

		assignment = &RoomAssignment{RoomID: room.ID, UserID: user.ID, Active: true}
		if err := ac.assignmentRepo.Create(ctx, tx, assignment); err != nil {
			return err
		}
		assignment.Room = room
		assignment.User = user

		delivery, err := ac.notification.Create(
			ctx, tx, user, NotificationTypeAssignment,
			assignedTitle, fmt.Sprintf(assignedBodyFormat, room.RoomNumber, room.Floor),
		)
		if err != nil {
			return err
		}
		deliveries = append(deliveries, delivery)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ac.notification.Dispatch(ctx, deliveries...)

	log.Info(
		"Room assigned",
		"assignmentID", assignment.ID,
		"roomID", req.RoomID,
		"userID", req.UserID,
		"adminID", admin.ID,
	)

	return assignment, nil
}

func (ac *AssignmentController) Deactivate(ctx context.Context, admin *User, id uuid.UUID) error {
	log := ac.log.Function("Deactivate").TraceFromContext(ctx)

	var delivery *services.Delivery
	err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		assignment, err := ac.assignmentRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := ac.assignmentRepo.Deactivate(ctx, tx, id); err != nil {
			return err
		}
		if !assignment.Active || assignment.User == nil || assignment.Room == nil {
			return nil
		}

		delivery, err = ac.notification.Create(
			ctx, tx, assignment.User, NotificationTypeUnassignment,
			unassignedTitle, fmt.Sprintf(unassignedBodyFormat, assignment.Room.RoomNumber),
		)
		return err
	})
	if err != nil {
		return err
	}

	ac.notification.Dispatch(ctx, delivery)

	log.Info("Assignment deactivated", "assignmentID", id, "adminID", admin.ID)
	return nil
}

func (ac *AssignmentController) DeletePermanently(ctx context.Context, admin *User, id uuid.UUID) error {
	if err := ac.assignmentRepo.DeletePermanently(ctx, ac.db.SQL, id); err != nil {
		return err
	}

	ac.log.Function("DeletePermanently").TraceFromContext(ctx).
		Info("Assignment deleted", "assignmentID", id, "adminID", admin.ID)
	return nil
}

// ListActive leaves out assignments whose room has since been cleaned.
func (ac *AssignmentController) ListActive(ctx context.Context) ([]*RoomAssignment, error) {
	return ac.assignmentRepo.ListActive(ctx, ac.db.SQL)
}

// ListByUser lets housekeepers see only their own work list.
func (ac *AssignmentController) ListByUser(
	ctx context.Context,
	requester *User,
	userID uuid.UUID,
) ([]*RoomAssignment, error) {
	if !requester.IsAdmin() && requester.ID != userID {
		return nil, types.NewAuthorizationError("housekeepers can only list their own assignments")
	}
	return ac.assignmentRepo.ListActiveByUser(ctx, ac.db.SQL, userID)
}

func (ac *AssignmentController) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*RoomAssignment, error) {
	return ac.assignmentRepo.ListActiveByRoom(ctx, ac.db.SQL, roomID)
}
