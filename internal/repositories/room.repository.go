package repositories

import (
	"context"
	"time"

	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	GetByBarcode(ctx context.Context, tx *gorm.DB, barcode string) (*Room, error)
	ExistsByNumber(ctx context.Context, tx *gorm.DB, roomNumber string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*Room, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, statuses ...RoomStatus) ([]*Room, error)
	ListByFloor(ctx context.Context, tx *gorm.DB, floor string) ([]*Room, error)
	Create(ctx context.Context, tx *gorm.DB, room *Room) error
	UpdateDetails(ctx context.Context, tx *gorm.DB, room *Room) error
	UpdateStatus(
		ctx context.Context,
		tx *gorm.DB,
		id uuid.UUID,
		status RoomStatus,
		changedAt time.Time,
	) error
	SetScheduledCleaningTimeForAll(ctx context.Context, tx *gorm.DB, at datatypes.Time) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type roomRepository struct {
	log logger.Logger
}

func NewRoomRepository() RoomRepository {
	return &roomRepository{
		log: logger.New("roomRepository"),
	}
}

func (r *roomRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	var room Room
	if err := tx.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "room not found")
	}
	return &room, nil
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *roomRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	var room Room
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "room not found")
	}
	return &room, nil
}

func (r *roomRepository) GetByBarcode(ctx context.Context, tx *gorm.DB, barcode string) (*Room, error) {
	var room Room
	if err := tx.WithContext(ctx).First(&room, "barcode_value = ?", barcode).Error; err != nil {
		return nil, notFoundOr(err, "room not found for barcode %s", barcode)
	}
	return &room, nil
}

func (r *roomRepository) ExistsByNumber(
	ctx context.Context,
	tx *gorm.DB,
	roomNumber string,
	excludeID uuid.UUID,
) (bool, error) {
	var count int64
	query := tx.WithContext(ctx).Model(&Room{}).Where("room_number = ?", roomNumber)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, r.log.Function("ExistsByNumber").Err("failed to count rooms", err, "roomNumber", roomNumber)
	}
	return count > 0, nil
}

func (r *roomRepository) List(ctx context.Context, tx *gorm.DB) ([]*Room, error) {
	var rooms []*Room
	if err := tx.WithContext(ctx).Order("floor ASC, room_number ASC").Find(&rooms).Error; err != nil {
		return nil, r.log.Function("List").Err("failed to list rooms", err)
	}
	return rooms, nil
}

func (r *roomRepository) ListByStatus(
	ctx context.Context,
	tx *gorm.DB,
	statuses ...RoomStatus,
) ([]*Room, error) {
	var rooms []*Room
	if err := tx.WithContext(ctx).
		Where("current_status IN ?", statuses).
		Order("floor ASC, room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, r.log.Function("ListByStatus").Err("failed to list rooms by status", err, "statuses", statuses)
	}
	return rooms, nil
}

func (r *roomRepository) ListByFloor(ctx context.Context, tx *gorm.DB, floor string) ([]*Room, error) {
	var rooms []*Room
	if err := tx.WithContext(ctx).
		Where("floor = ?", floor).
		Order("room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, r.log.Function("ListByFloor").Err("failed to list rooms by floor", err, "floor", floor)
	}
	return rooms, nil
}

func (r *roomRepository) Create(ctx context.Context, tx *gorm.DB, room *Room) error {
	if err := tx.WithContext(ctx).Create(room).Error; err != nil {
		return r.log.Function("Create").Err("failed to create room", err, "roomNumber", room.RoomNumber)
	}
	return nil
}

// UpdateDetails writes every column except the status pair, which only the
// room state service may change.
func (r *roomRepository) UpdateDetails(ctx context.Context, tx *gorm.DB, room *Room) error {
	result := tx.WithContext(ctx).
		Model(&Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"room_number":             room.RoomNumber,
			"floor":                   room.Floor,
			"barcode_value":           room.BarcodeValue,
			"scheduled_cleaning_time": room.ScheduledCleaningTime,
			"notes":                   room.Notes,
		})
	if result.Error != nil {
		return r.log.Function("UpdateDetails").Err("failed to update room", result.Error, "roomID", room.ID)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "room not found")
	}
	return nil
}

func (r *roomRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status RoomStatus,
	changedAt time.Time,
) error {
	if err := tx.WithContext(ctx).
		Model(&Room{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_status":     status,
			"last_status_change": changedAt,
		}).Error; err != nil {
		return r.log.Function("UpdateStatus").Err("failed to update room status", err, "roomID", id, "status", status)
	}
	return nil
}

func (r *roomRepository) SetScheduledCleaningTimeForAll(
	ctx context.Context,
	tx *gorm.DB,
	at datatypes.Time,
) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&Room{}).
		Where("1 = 1").
		Update("scheduled_cleaning_time", at)
	if result.Error != nil {
		return 0, r.log.Function("SetScheduledCleaningTimeForAll").Err("failed to reschedule rooms", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *roomRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := tx.WithContext(ctx).Delete(&Room{}, "id = ?", id)
	if result.Error != nil {
		return r.log.Function("Delete").Err("failed to delete room", result.Error, "roomID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "room not found")
	}
	return nil
}
