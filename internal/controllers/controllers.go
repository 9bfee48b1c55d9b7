package controllers

import (
	"hotelparadise/config"
	"hotelparadise/internal/database"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"

	assignmentController "hotelparadise/internal/controllers/assignments"
	authController "hotelparadise/internal/controllers/auth"
	cleaningController "hotelparadise/internal/controllers/cleanings"
	incidentController "hotelparadise/internal/controllers/incidents"
	notificationController "hotelparadise/internal/controllers/notifications"
	roomController "hotelparadise/internal/controllers/rooms"
	settingsController "hotelparadise/internal/controllers/settings"
	userController "hotelparadise/internal/controllers/users"
)

type Controllers struct {
	Auth         authController.AuthControllerInterface
	User         userController.UserControllerInterface
	Room         roomController.RoomControllerInterface
	Cleaning     cleaningController.CleaningControllerInterface
	Incident     incidentController.IncidentControllerInterface
	Assignment   assignmentController.AssignmentControllerInterface
	Settings     settingsController.SettingsControllerInterface
	Notification notificationController.NotificationControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:         authController.New(repos, services, db),
		User:         userController.New(repos, services, config, db),
		Room:         roomController.New(repos, services, config, db),
		Cleaning:     cleaningController.New(repos, services, config, db),
		Incident:     incidentController.New(repos, services, config, db),
		Assignment:   assignmentController.New(repos, services, config, db),
		Settings:     settingsController.New(repos, services, config, db),
		Notification: notificationController.New(repos, services, config, db),
	}
}
