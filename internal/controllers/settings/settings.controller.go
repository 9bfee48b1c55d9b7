package settingsController

import (
	"context"
	"errors"

	"hotelparadise/config"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/repositories"
	"hotelparadise/internal/services"
	"hotelparadise/internal/types"
	"hotelparadise/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SettingsRequest struct {
	CleaningStartTime *string `json:"cleaningStartTime"`
	AllowOffline      *bool   `json:"allowOffline"`
}

type SettingsControllerInterface interface {
	Get(ctx context.Context) (*HotelSettings, error)
	Upsert(ctx context.Context, admin *User, req SettingsRequest) (*HotelSettings, error)
}

type SettingsController struct {
	settingsRepo repositories.HotelSettingsRepository
	roomRepo     repositories.RoomRepository
	transaction  *services.TransactionService
	db           database.DB
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) SettingsControllerInterface {
	return &SettingsController{
		settingsRepo: repos.HotelSettings,
		roomRepo:     repos.Room,
		transaction:  services.Transaction,
		db:           db,
		log:          logger.New("settingsController"),
	}
}

func (sc *SettingsController) Get(ctx context.Context) (*HotelSettings, error) {
	return sc.settingsRepo.Get(ctx, sc.db.SQL)
}

// Upsert stores the hotel wide cleaning time and moves every room to it.
func (sc *SettingsController) Upsert(
	ctx context.Context,
	admin *User,
	req SettingsRequest,
) (*HotelSettings, error) {
	log := sc.log.Function("Upsert").TraceFromContext(ctx)

	if req.CleaningStartTime == nil {
		return nil, types.NewValidationError("cleaningStartTime is required")
	}
	offset, err := utils.ParseClock(*req.CleaningStartTime)
	if err != nil {
		return nil, err
	}
	startTime := datatypes.Time(offset)

	var settings *HotelSettings
	var rescheduled int64
	err = sc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		settings, err = sc.settingsRepo.Get(ctx, tx)
		if errors.Is(err, types.ErrNotFound) {
			settings, err = &HotelSettings{}, nil
		}
		if err != nil {
			return err
		}

		settings.CleaningStartTime = startTime
		if req.AllowOffline != nil {
			settings.AllowOffline = *req.AllowOffline
		}
		if err := sc.settingsRepo.Save(ctx, tx, settings); err != nil {
			return err
		}

		rescheduled, err = sc.roomRepo.SetScheduledCleaningTimeForAll(ctx, tx, startTime)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"Hotel settings saved",
		"cleaningStartTime", startTime.String(),
		"allowOffline", settings.AllowOffline,
		"roomsRescheduled", rescheduled,
		"adminID", admin.ID,
	)

	return settings, nil
}
