package app

import (
	"context"

	"hotelparadise/config"
	"hotelparadise/internal/controllers"
	"hotelparadise/internal/database"
	"hotelparadise/internal/events"
	"hotelparadise/internal/handlers/middleware"
	"hotelparadise/internal/jobs"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"
	"hotelparadise/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New(ctx context.Context) (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)
	repos := repositories.New(db)

	services, err := services.New(ctx, db, repos, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(eventBus, services.Session)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if err := jobs.RegisterAllJobs(db, config, services, repos); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware.New(services.Session, config),
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    services,
		Repos:       repos,
		Controllers: controllers.New(services, repos, config, db),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Session,
		a.Services.RoomState,
		a.Services.Notification,
		a.Services.Scheduler,
		a.Services.Storage,
		a.Controllers.Auth,
		a.Controllers.Room,
		a.Controllers.Incident,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

// Start runs background work that must begin after the server is wired.
func (a *App) Start(ctx context.Context) error {
	if !a.Config.SchedulerEnabled {
		return nil
	}
	return a.Services.Scheduler.Start(ctx)
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
