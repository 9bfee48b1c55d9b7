package notificationController

import (
	"context"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type NotificationList struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int64           `json:"unreadCount"`
}

type NotificationControllerInterface interface {
	ListMine(ctx context.Context, user *User) (*NotificationList, error)
	ListUnread(ctx context.Context, user *User) ([]*Notification, error)
	CountUnread(ctx context.Context, user *User) (int64, error)
	MarkRead(ctx context.Context, user *User, id uuid.UUID) error
	MarkAllRead(ctx context.Context, user *User) (int64, error)
	Delete(ctx context.Context, user *User, id uuid.UUID) error
}

// NotificationController only ever touches the caller's own notifications.
type NotificationController struct {
	notificationRepo repositories.NotificationRepository
	db               database.DB
	log              logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) NotificationControllerInterface {
	return &NotificationController{
		notificationRepo: repos.Notification,
		db:               db,
		log:              logger.New("notificationController"),
	}
}

func (nc *NotificationController) ListMine(ctx context.Context, user *User) (*NotificationList, error) {
	notifications, err := nc.notificationRepo.ListByUser(ctx, nc.db.SQL, user.ID)
	if err != nil {
		return nil, err
	}

	var unread int64
	for _, notification := range notifications {
		if !notification.IsRead {
			unread++
		}
	}

	if notifications == nil {
		notifications = []*Notification{}
	}

	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

func (nc *NotificationController) ListUnread(ctx context.Context, user *User) ([]*Notification, error) {
	return nc.notificationRepo.ListUnreadByUser(ctx, nc.db.SQL, user.ID)
}

func (nc *NotificationController) CountUnread(ctx context.Context, user *User) (int64, error) {
	return nc.notificationRepo.CountUnread(ctx, nc.db.SQL, user.ID)
}

func (nc *NotificationController) MarkRead(ctx context.Context, user *User, id uuid.UUID) error {
	return nc.notificationRepo.MarkRead(ctx, nc.db.SQL, id, user.ID)
}

func (nc *NotificationController) MarkAllRead(ctx context.Context, user *User) (int64, error) {
	updated, err := nc.notificationRepo.MarkAllRead(ctx, nc.db.SQL, user.ID)
	if err != nil {
		return 0, err
	}

	nc.log.Function("MarkAllRead").TraceFromContext(ctx).
		Debug("Notifications marked read", "userID", user.ID, "count", updated)
	return updated, nil
}

func (nc *NotificationController) Delete(ctx context.Context, user *User, id uuid.UUID) error {
	return nc.notificationRepo.Delete(ctx, nc.db.SQL, id, user.ID)
}
