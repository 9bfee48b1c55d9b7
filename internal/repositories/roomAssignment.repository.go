package repositories

import (
	"context"

	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomAssignmentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*RoomAssignment, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*RoomAssignment, error)
	ListActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*RoomAssignment, error)
	ListActiveByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*RoomAssignment, error)
	Create(ctx context.Context, tx *gorm.DB, assignment *RoomAssignment) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeactivateAllForRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*RoomAssignment, error)
	DeletePermanently(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type roomAssignmentRepository struct {
	log logger.Logger
}

func NewRoomAssignmentRepository() RoomAssignmentRepository {
	return &roomAssignmentRepository{
		log: logger.New("roomAssignmentRepository"),
	}
}

func (r *roomAssignmentRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*RoomAssignment, error) {
	var assignment RoomAssignment
	if err := tx.WithContext(ctx).
		Preload("Room").
		Preload("User").
		First(&assignment, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "assignment not found")
	}
	return &assignment, nil
}

// pendingWork limits a query to active assignments whose room still needs work.
func pendingWork(tx *gorm.DB) *gorm.DB {
	return tx.
		Joins("JOIN rooms ON rooms.id = room_assignments.room_id AND rooms.deleted_at IS NULL").
		Where("room_assignments.active = ? AND rooms.current_status <> ?", true, RoomStatusClean).
		Preload("Room").
		Preload("User").
		Order("room_assignments.created_at DESC")
}

func (r *roomAssignmentRepository) ListActive(ctx context.Context, tx *gorm.DB) ([]*RoomAssignment, error) {
	var assignments []*RoomAssignment
	if err := pendingWork(tx.WithContext(ctx)).Find(&assignments).Error; err != nil {
		return nil, r.log.Function("ListActive").Err("failed to list active assignments", err)
	}
	return assignments, nil
}

func (r *roomAssignmentRepository) ListActiveByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*RoomAssignment, error) {
	var assignments []*RoomAssignment
	if err := pendingWork(tx.WithContext(ctx)).
		Where("room_assignments.user_id = ?", userID).
		Find(&assignments).Error; err != nil {
		return nil, r.log.Function("ListActiveByUser").Err("failed to list user assignments", err, "userID", userID)
	}
	return assignments, nil
}

func (r *roomAssignmentRepository) ListActiveByRoom(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
) ([]*RoomAssignment, error) {
	var assignments []*RoomAssignment
	if err := tx.WithContext(ctx).
		Preload("User").
		Where("room_id = ? AND active = ?", roomID, true).
		Find(&assignments).Error; err != nil {
		return nil, r.log.Function("ListActiveByRoom").Err("failed to list room assignments", err, "roomID", roomID)
	}
	return assignments, nil
}

func (r *roomAssignmentRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	assignment *RoomAssignment,
) error {
	if err := tx.WithContext(ctx).Create(assignment).Error; err != nil {
		return r.log.Function("Create").Err(
			"failed to create assignment",
			err,
			"roomID", assignment.RoomID,
			"userID", assignment.UserID,
		)
	}
	return nil
}

func (r *roomAssignmentRepository) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := tx.WithContext(ctx).
		Model(&RoomAssignment{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return r.log.Function("Deactivate").Err("failed to deactivate assignment", result.Error, "assignmentID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "assignment not found")
	}
	return nil
}

// DeactivateAllForRoom returns the assignments it switched off so callers can
// notify the affected housekeepers.
func (r *roomAssignmentRepository) DeactivateAllForRoom(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
) ([]*RoomAssignment, error) {
	log := r.log.Function("DeactivateAllForRoom")

	active, err := r.ListActiveByRoom(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(active))
	for _, assignment := range active {
		ids = append(ids, assignment.ID)
		assignment.Active = false
	}

	if err := tx.WithContext(ctx).
		Model(&RoomAssignment{}).
		Where("id IN ?", ids).
		Update("active", false).Error; err != nil {
		return nil, log.Err("failed to deactivate room assignments", err, "roomID", roomID)
	}

	return active, nil
}

func (r *roomAssignmentRepository) DeletePermanently(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := tx.WithContext(ctx).Unscoped().Delete(&RoomAssignment{}, "id = ?", id)
	if result.Error != nil {
		return r.log.Function("DeletePermanently").Err("failed to delete assignment", result.Error, "assignmentID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "assignment not found")
	}
	return nil
}
