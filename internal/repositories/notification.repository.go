package repositories

import (
	"context"

	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Notification, error)
	ListUnreadByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Notification, error)
	CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) error
}

type notificationRepository struct {
	log logger.Logger
}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(ctx context.Context, tx *gorm.DB, notification *Notification) error {
	if err := tx.WithContext(ctx).Create(notification).Error; err != nil {
		return r.log.Function("Create").Err("failed to create notification", err, "userID", notification.UserID)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Notification, error) {
	var notifications []*Notification
	if err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, r.log.Function("ListByUser").Err("failed to list notifications", err, "userID", userID)
	}
	return notifications, nil
}

func (r *notificationRepository) ListUnreadByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Notification, error) {
	var notifications []*Notification
	if err := tx.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, r.log.Function("ListUnreadByUser").Err("failed to list unread notifications", err, "userID", userID)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, r.log.Function("CountUnread").Err("failed to count unread notifications", err, "userID", userID)
	}
	return count, nil
}

// MarkRead only touches a notification owned by userID; anything else is NotFound.
func (r *notificationRepository) MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) error {
	result := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return r.log.Function("MarkRead").Err("failed to mark notification read", result.Error, "notificationID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "notification not found")
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, r.log.Function("MarkAllRead").Err("failed to mark notifications read", result.Error, "userID", userID)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) error {
	result := tx.WithContext(ctx).Delete(&Notification{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return r.log.Function("Delete").Err("failed to delete notification", result.Error, "notificationID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "notification not found")
	}
	return nil
}
