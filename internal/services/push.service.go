package services

import (
	"context"
	"encoding/json"
	"time"

	"hotelparadise/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PushMessage is the job consumed by the push delivery worker, which owns
// the FCM transport.
type PushMessage struct {
	UserID   uuid.UUID `json:"userId"`
	Address  string    `json:"fcmToken"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Type     string    `json:"type"`
	QueuedAt time.Time `json:"queuedAt"`
}

type PushPublisher interface {
	Publish(ctx context.Context, message PushMessage) error
}

// PushService publishes push jobs to a durable RabbitMQ queue. With no
// AMQP_URL configured it only logs.
type PushService struct {
	url   string
	queue string
	log   logger.Logger
}

func NewPushService(config config.Config) *PushService {
	return &PushService{
		url:   config.AMQPURL,
		queue: config.PushQueue,
		log:   logger.New("pushService"),
	}
}

func (s *PushService) Enabled() bool {
	return s.url != "" && s.queue != ""
}

func (s *PushService) Publish(ctx context.Context, message PushMessage) error {
	log := s.log.TraceFromContext(ctx).Function("Publish")

	if !s.Enabled() {
		log.Debug("Push queue not configured, skipping", "userID", message.UserID)
		return nil
	}

	if message.QueuedAt.IsZero() {
		message.QueuedAt = time.Now().UTC()
	}

	body, err := json.Marshal(message)
	if err != nil {
		return log.Err("failed to marshal push message", err, "userID", message.UserID)
	}

	conn, err := amqp.Dial(s.url)
	if err != nil {
		return log.Err("failed to dial broker", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return log.Err("failed to open channel", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		return log.Err("failed to declare queue", err, "queue", s.queue)
	}

	err = ch.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    message.QueuedAt,
		Body:         body,
	})
	if err != nil {
		return log.Err("failed to publish push message", err, "queue", s.queue)
	}

	log.Debug("Push message queued", "userID", message.UserID, "queue", s.queue)
	return nil
}
