package repositories

import (
	"context"
	"time"

	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CleaningRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cleaning, error)
	Create(ctx context.Context, tx *gorm.DB, cleaning *Cleaning) error
	List(ctx context.Context, tx *gorm.DB) ([]*Cleaning, error)
	ListByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*Cleaning, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Cleaning, error)
	ListBetween(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]*Cleaning, error)
	ListPendingSync(ctx context.Context, tx *gorm.DB) ([]*Cleaning, error)
	MarkSynced(ctx context.Context, tx *gorm.DB, id uuid.UUID, syncedAt time.Time) error
}

type cleaningRepository struct {
	log logger.Logger
}

func NewCleaningRepository() CleaningRepository {
	return &cleaningRepository{
		log: logger.New("cleaningRepository"),
	}
}

func (r *cleaningRepository) withRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Room").Preload("CleanedBy").Order("cleaning_datetime DESC")
}

func (r *cleaningRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Cleaning, error) {
	var cleaning Cleaning
	if err := r.withRelations(tx.WithContext(ctx)).First(&cleaning, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "cleaning not found")
	}
	return &cleaning, nil
}

func (r *cleaningRepository) Create(ctx context.Context, tx *gorm.DB, cleaning *Cleaning) error {
	if err := tx.WithContext(ctx).Create(cleaning).Error; err != nil {
		return r.log.Function("Create").Err("failed to register cleaning", err, "roomID", cleaning.RoomID)
	}
	return nil
}

func (r *cleaningRepository) find(ctx context.Context, tx *gorm.DB, function string, query any, args ...any) ([]*Cleaning, error) {
	var cleanings []*Cleaning
	db := r.withRelations(tx.WithContext(ctx))
	if query != nil {
		db = db.Where(query, args...)
	}
	if err := db.Find(&cleanings).Error; err != nil {
		return nil, r.log.Function(function).Err("failed to list cleanings", err)
	}
	return cleanings, nil
}

func (r *cleaningRepository) List(ctx context.Context, tx *gorm.DB) ([]*Cleaning, error) {
	return r.find(ctx, tx, "List", nil)
}

func (r *cleaningRepository) ListByRoom(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) ([]*Cleaning, error) {
	return r.find(ctx, tx, "ListByRoom", "room_id = ?", roomID)
}

func (r *cleaningRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Cleaning, error) {
	return r.find(ctx, tx, "ListByUser", "cleaned_by_user_id = ?", userID)
}

func (r *cleaningRepository) ListBetween(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]*Cleaning, error) {
	return r.find(ctx, tx, "ListBetween", "cleaning_datetime BETWEEN ? AND ?", start, end)
}

func (r *cleaningRepository) ListPendingSync(ctx context.Context, tx *gorm.DB) ([]*Cleaning, error) {
	return r.find(ctx, tx, "ListPendingSync", "is_synced = ?", false)
}

func (r *cleaningRepository) MarkSynced(ctx context.Context, tx *gorm.DB, id uuid.UUID, syncedAt time.Time) error {
	result := tx.WithContext(ctx).
		Model(&Cleaning{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_synced": true, "synced_at": syncedAt})
	if result.Error != nil {
		return r.log.Function("MarkSynced").Err("failed to mark cleaning synced", result.Error, "cleaningID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "cleaning not found")
	}
	return nil
}
