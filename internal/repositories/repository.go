package repositories

import (
	"errors"

	"hotelparadise/internal/database"
	"hotelparadise/internal/types"

	"gorm.io/gorm"
)

type Repository struct {
	User           UserRepository
	Token          TokenRepository
	Room           RoomRepository
	RoomAssignment RoomAssignmentRepository
	Cleaning       CleaningRepository
	Incident       IncidentRepository
	HotelSettings  HotelSettingsRepository
	Notification   NotificationRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:           NewUserRepository(db.Cache.User),
		Token:          NewTokenRepository(db.Cache.Session),
		Room:           NewRoomRepository(),
		RoomAssignment: NewRoomAssignmentRepository(),
		Cleaning:       NewCleaningRepository(),
		Incident:       NewIncidentRepository(),
		HotelSettings:  NewHotelSettingsRepository(db.Cache.General),
		Notification:   NewNotificationRepository(),
	}
}

// notFoundOr converts gorm's missing-row error into a NotFound error and
// leaves every other error untouched.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewNotFoundError(format, args...)
	}
	return err
}
