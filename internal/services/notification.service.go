package services

import (
	"context"

	"hotelparadise/internal/database"
	"hotelparadise/internal/events"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// Delivery is a persisted notification waiting to be pushed to its user.
type Delivery struct {
	User         *User
	Notification *Notification
}

// NotificationService persists notifications and fans them out to open
// sockets and the push queue. Persisting happens inside the caller's
// transaction; dispatching must wait until it commits.
type NotificationService struct {
	db            database.DB
	notifications repositories.NotificationRepository
	eventBus      *events.EventBus
	push          PushPublisher
	log           logger.Logger
}

func NewNotificationService(
	db database.DB,
	repos repositories.Repository,
	eventBus *events.EventBus,
	push PushPublisher,
) *NotificationService {
	return &NotificationService{
		db:            db,
		notifications: repos.Notification,
		eventBus:      eventBus,
		push:          push,
		log:           logger.New("notificationService"),
	}
}

func (s *NotificationService) Create(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	notificationType NotificationType,
	title string,
	body string,
) (*Delivery, error) {
	notification := &Notification{
		UserID: user.ID,
		Title:  title,
		Body:   body,
		Type:   notificationType,
	}

	if err := s.notifications.Create(ctx, tx, notification); err != nil {
		return nil, s.log.TraceFromContext(ctx).Function("Create").
			Err("failed to create notification", err, "userID", user.ID, "type", notificationType)
	}

	return &Delivery{User: user, Notification: notification}, nil
}

// Notify persists and dispatches a single notification outside any transaction.
func (s *NotificationService) Notify(
	ctx context.Context,
	user *User,
	notificationType NotificationType,
	title string,
	body string,
) error {
	delivery, err := s.Create(ctx, s.db.SQL, user, notificationType, title, body)
	if err != nil {
		return err
	}

	s.Dispatch(ctx, delivery)
	return nil
}

// Dispatch is best effort: the notification is already stored, so delivery
// failures are logged and not returned.
func (s *NotificationService) Dispatch(ctx context.Context, deliveries ...*Delivery) {
	log := s.log.TraceFromContext(ctx).Function("Dispatch")

	for _, delivery := range deliveries {
		if delivery == nil {
			continue
		}

		notification := delivery.Notification
		userID := delivery.User.ID

		if s.eventBus != nil {
			err := s.eventBus.Publish(events.NOTIFICATION_CHANNEL, events.Event{
				Type:   events.NOTIFICATION,
				UserID: &userID,
				Data: map[string]any{
					"id":        notification.ID.String(),
					"title":     notification.Title,
					"body":      notification.Body,
					"type":      string(notification.Type),
					"isRead":    notification.IsRead,
					"createdAt": notification.CreatedAt,
				},
			})
			if err != nil {
				log.Er("failed to publish notification", err, "notificationID", notification.ID)
			}
		}

		if s.push == nil || !delivery.User.HasPushAddress() {
			continue
		}

		err := s.push.Publish(ctx, PushMessage{
			UserID:  userID,
			Address: *delivery.User.FCMToken,
			Title:   notification.Title,
			Body:    notification.Body,
			Type:    string(notification.Type),
		})
		if err != nil {
			log.Er("failed to queue push notification", err, "notificationID", notification.ID)
		}
	}
}
