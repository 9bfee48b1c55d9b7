package services

import (
	"context"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	"hotelparadise/internal/events"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/storage"
)

type Service struct {
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	Password     *PasswordService
	Token        *TokenService
	Session      *SessionService
	RoomState    *RoomStateService
	Notification *NotificationService
	Push         *PushService
	Storage      storage.PhotoStorage
}

func New(
	ctx context.Context,
	db database.DB,
	repos repositories.Repository,
	config config.Config,
	eventBus *events.EventBus,
) (Service, error) {
	photoStorage, err := storage.New(ctx, config)
	if err != nil {
		return Service{}, err
	}

	tokenService := NewTokenService(config)
	pushService := NewPushService(config)

	return Service{
		Transaction:  NewTransactionService(db),
		Scheduler:    NewSchedulerService(config.Location()),
		Password:     NewPasswordService(),
		Token:        tokenService,
		Session:      NewSessionService(db, repos, tokenService),
		RoomState:    NewRoomStateService(repos, eventBus),
		Notification: NewNotificationService(db, repos, eventBus, pushService),
		Push:         pushService,
		Storage:      photoStorage,
	}, nil
}
