package jobs

import (
	"context"
	"time"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// CleanlinessCheckJob moves occupied or clean rooms to PENDING_CLEANING once
// their daily cleaning time has passed. Rooms without a cleaning time are left
// alone. It runs with system authority.
type CleanlinessCheckJob struct {
	db          database.DB
	rooms       repositories.RoomRepository
	roomState   *services.RoomStateService
	transaction *services.TransactionService
	location    *time.Location
	schedule    services.Schedule
	now         func() time.Time
	log         logger.Logger
}

func NewCleanlinessCheckJob(
	db database.DB,
	repos repositories.Repository,
	svc services.Service,
	config config.Config,
) *CleanlinessCheckJob {
	return &CleanlinessCheckJob{
		db:          db,
		rooms:       repos.Room,
		roomState:   svc.RoomState,
		transaction: svc.Transaction,
		location:    config.Location(),
		schedule:    services.Every(config.CleaningCheckEvery()),
		now:         time.Now,
		log:         logger.New("cleanlinessCheckJob"),
	}
}

func (j *CleanlinessCheckJob) Name() string {
	return "CleanlinessCheck"
}

func (j *CleanlinessCheckJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *CleanlinessCheckJob) Execute(ctx context.Context) error {
	log := j.log.TraceFromContext(ctx).Function("Execute")

	rooms, err := j.rooms.ListByStatus(ctx, j.db.SQL, RoomStatusInUse, RoomStatusClean)
	if err != nil {
		return log.Err("failed to load rooms", err)
	}

	now := j.now().In(j.location)

	var changes []*services.RoomChange
	for _, room := range rooms {
		scheduled, ok := room.CleaningOffset()
		if !ok || !IsCleaningDue(now, scheduled, room.LastStatusChange) {
			continue
		}

		var change *services.RoomChange
		err := j.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			var err error
			change, err = j.roomState.Apply(ctx, tx, room.ID, ScheduledCheck{
				Now:           now,
				ScheduledTime: scheduled,
				LastChange:    room.LastStatusChange,
			})
			return err
		})
		if err != nil {
			// One bad room must not stop the sweep.
			log.Er("failed to apply scheduled check", err, "roomID", room.ID)
			continue
		}

		if change.Changed {
			changes = append(changes, change)
		}
	}

	j.roomState.Publish(ctx, changes...)

	if len(changes) > 0 {
		log.Info("Rooms flagged for cleaning", "count", len(changes), "checked", len(rooms))
	}

	return nil
}
