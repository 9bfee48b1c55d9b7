package cleaningController

import (
	"context"
	"strings"
	"time"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"
	"hotelparadise/internal/types"
	"hotelparadise/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateOnlyLength = len("2006-01-02")

type CleaningRequest struct {
	RoomID           uuid.UUID `json:"roomId"`
	CleaningDatetime string    `json:"cleaningDateTime"`
	Source           string    `json:"source"`
	IsOffline        bool      `json:"isOffline"`
}

type CleaningControllerInterface interface {
	Register(ctx context.Context, user *User, req CleaningRequest) (*Cleaning, error)
	List(ctx context.Context) ([]*Cleaning, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*Cleaning, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Cleaning, error)
	ListBetween(ctx context.Context, start, end string) ([]*Cleaning, error)
	ListPendingSync(ctx context.Context) ([]*Cleaning, error)
	Sync(ctx context.Context, id uuid.UUID) (*Cleaning, error)
}

type CleaningController struct {
	cleaningRepo repositories.CleaningRepository
	roomState    *services.RoomStateService
	transaction  *services.TransactionService
	db           database.DB
	location     *time.Location
	now          func() time.Time
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) CleaningControllerInterface {
	return &CleaningController{
		cleaningRepo: repos.Cleaning,
		roomState:    services.RoomState,
		transaction:  services.Transaction,
		db:           db,
		location:     config.Location(),
		now:          time.Now,
		log:          logger.New("cleaningController"),
	}
}

// Register records a cleaning and marks the room CLEAN in the same
// transaction. Offline records arrive unsynced until Sync is called.
func (cc *CleaningController) Register(ctx context.Context, user *User, req CleaningRequest) (*Cleaning, error) {
	log := cc.log.Function("Register").TraceFromContext(ctx)

	if req.RoomID == uuid.Nil {
		return nil, types.NewValidationError("roomId is required")
	}

	now := cc.now()
	cleaning := &Cleaning{
		RoomID:           req.RoomID,
		CleanedByUserID:  user.ID,
		CleaningDatetime: now,
		Source:           CleaningSourceScan,
		IsOffline:        req.IsOffline,
		IsSynced:         !req.IsOffline,
	}
	if !req.IsOffline {
		cleaning.SyncedAt = &now
	}

	if req.Source != "" {
		source := CleaningSource(strings.ToUpper(strings.TrimSpace(req.Source)))
		if !source.IsValid() {
			return nil, types.NewValidationError("invalid cleaning source %q", req.Source)
		}
		cleaning.Source = source
	}

	if strings.TrimSpace(req.CleaningDatetime) != "" {
		at, err := utils.ParseDateTime(req.CleaningDatetime, cc.location)
		if err != nil {
			return nil, err
		}
		cleaning.CleaningDatetime = at
	}

	var change *services.RoomChange
	err := cc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		change, err = cc.roomState.Apply(ctx, tx, req.RoomID, CleaningRegistered{})
		if err != nil {
			return err
		}
		return cc.cleaningRepo.Create(ctx, tx, cleaning)
	})
	if err != nil {
		return nil, err
	}

	cc.roomState.Publish(ctx, change)
	cleaning.Room = change.Room

	log.Info(
		"Cleaning registered",
		"cleaningID", cleaning.ID,
		"roomID", req.RoomID,
		"userID", user.ID,
		"offline", req.IsOffline,
		"releasedAssignments", len(change.Released),
	)

	return cleaning, nil
}

func (cc *CleaningController) List(ctx context.Context) ([]*Cleaning, error) {
	return cc.cleaningRepo.List(ctx, cc.db.SQL)
}

func (cc *CleaningController) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*Cleaning, error) {
	return cc.cleaningRepo.ListByRoom(ctx, cc.db.SQL, roomID)
}

func (cc *CleaningController) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Cleaning, error) {
	return cc.cleaningRepo.ListByUser(ctx, cc.db.SQL, userID)
}

// ListBetween reads both bounds in the hotel's time zone. A date-only end
// covers that whole day.
func (cc *CleaningController) ListBetween(ctx context.Context, start, end string) ([]*Cleaning, error) {
	from, err := utils.ParseDateTime(start, cc.location)
	if err != nil {
		return nil, err
	}
	to, err := utils.ParseDateTime(end, cc.location)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(end)) == dateOnlyLength {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if to.Before(from) {
		return nil, types.NewValidationError("end must not be before start")
	}

	return cc.cleaningRepo.ListBetween(ctx, cc.db.SQL, from, to)
}

func (cc *CleaningController) ListPendingSync(ctx context.Context) ([]*Cleaning, error) {
	return cc.cleaningRepo.ListPendingSync(ctx, cc.db.SQL)
}

func (cc *CleaningController) Sync(ctx context.Context, id uuid.UUID) (*Cleaning, error) {
	if err := cc.cleaningRepo.MarkSynced(ctx, cc.db.SQL, id, cc.now()); err != nil {
		return nil, err
	}
	return cc.cleaningRepo.GetByID(ctx, cc.db.SQL, id)
}
