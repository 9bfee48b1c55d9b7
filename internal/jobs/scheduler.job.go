package jobs

import (
	"hotelparadise/config"
	"hotelparadise/internal/database"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

func RegisterAllJobs(
	db database.DB,
	config config.Config,
	svc services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	cleanlinessCheckJob := NewCleanlinessCheckJob(db, repos, svc, config)
	if err := svc.Scheduler.AddJob(cleanlinessCheckJob); err != nil {
		return log.Err("failed to register cleanliness check job", err)
	}
	log.Info("Registered cleanliness check job", "every", config.CleaningCheckEvery())

	tokenSweepJob := NewTokenSweepJob(db, repos, config)
	if err := svc.Scheduler.AddJob(tokenSweepJob); err != nil {
		return log.Err("failed to register token sweep job", err)
	}
	log.Info("Registered token sweep job", "schedule", "daily 03:00")

	return nil
}
