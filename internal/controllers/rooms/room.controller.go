package roomController

import (
	"context"
	"errors"
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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const fallbackCleaningTime = 14 * time.Hour

type RoomRequest struct {
	RoomNumber            string  `json:"roomNumber"`
	Floor                 string  `json:"floor"`
	BarcodeValue          *string `json:"barcodeValue"`
	ScheduledCleaningTime *string `json:"scheduledCleaningTime"`
	Notes                 *string `json:"notes"`
	CurrentStatus         string  `json:"currentStatus"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type RoomControllerInterface interface {
	List(ctx context.Context) ([]*Room, error)
	Get(ctx context.Context, id uuid.UUID) (*Room, error)
	ListByStatus(ctx context.Context, status string) ([]*Room, error)
	ListByFloor(ctx context.Context, floor string) ([]*Room, error)
	GetByBarcode(ctx context.Context, barcode string) (*Room, error)
	Create(ctx context.Context, req RoomRequest) (*Room, error)
	Update(ctx context.Context, id uuid.UUID, req RoomRequest) (*Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, user *User, id uuid.UUID, req StatusRequest) (*Room, error)
}

type RoomController struct {
	roomRepo     repositories.RoomRepository
	settingsRepo repositories.HotelSettingsRepository
	roomState    *services.RoomStateService
	transaction  *services.TransactionService
	db           database.DB
	Config       config.Config
	now          func() time.Time
	log          logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) RoomControllerInterface {
	return &RoomController{
		roomRepo:     repos.Room,
		settingsRepo: repos.HotelSettings,
		roomState:    services.RoomState,
		transaction:  services.Transaction,
		db:           db,
		Config:       config,
		now:          time.Now,
		log:          logger.New("roomController"),
	}
}

func (rc *RoomController) List(ctx context.Context) ([]*Room, error) {
	return rc.roomRepo.List(ctx, rc.db.SQL)
}

func (rc *RoomController) Get(ctx context.Context, id uuid.UUID) (*Room, error) {
	return rc.roomRepo.GetByID(ctx, rc.db.SQL, id)
}

func (rc *RoomController) ListByStatus(ctx context.Context, status string) ([]*Room, error) {
	parsed, ok := ParseRoomStatus(status)
	if !ok {
		return nil, types.NewValidationError("invalid room status %q", status)
	}
	return rc.roomRepo.ListByStatus(ctx, rc.db.SQL, parsed)
}

func (rc *RoomController) ListByFloor(ctx context.Context, floor string) ([]*Room, error) {
	return rc.roomRepo.ListByFloor(ctx, rc.db.SQL, strings.TrimSpace(floor))
}

func (rc *RoomController) GetByBarcode(ctx context.Context, barcode string) (*Room, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, types.NewValidationError("barcode is required")
	}
	return rc.roomRepo.GetByBarcode(ctx, rc.db.SQL, barcode)
}

// Create stores a new room. Without its own schedule the room inherits the
// hotel's cleaning time.
func (rc *RoomController) Create(ctx context.Context, req RoomRequest) (*Room, error) {
	log := rc.log.Function("Create").TraceFromContext(ctx)

	room := &Room{
		RoomNumber:    utils.CleanText(req.RoomNumber),
		Floor:         utils.CleanText(req.Floor),
		BarcodeValue:  utils.OptionalText(req.BarcodeValue),
		Notes:         utils.OptionalText(req.Notes),
		CurrentStatus: RoomStatusClean,
	}

	if room.RoomNumber == "" || room.Floor == "" {
		return nil, types.NewValidationError("roomNumber and floor are required")
	}

	if req.CurrentStatus != "" {
		status, ok := ParseRoomStatus(req.CurrentStatus)
		if !ok {
			return nil, types.NewValidationError("invalid room status %q", req.CurrentStatus)
		}
		room.CurrentStatus = status
	}

	if req.ScheduledCleaningTime != nil && strings.TrimSpace(*req.ScheduledCleaningTime) != "" {
		scheduled, err := parseSchedule(*req.ScheduledCleaningTime)
		if err != nil {
			return nil, err
		}
		room.ScheduledCleaningTime = scheduled
	} else {
		scheduled := datatypes.Time(rc.hotelCleaningTime(ctx))
		room.ScheduledCleaningTime = &scheduled
	}

	now := rc.now()
	room.LastStatusChange = &now

	err := rc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		exists, err := rc.roomRepo.ExistsByNumber(ctx, tx, room.RoomNumber, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return types.NewValidationError("room %s already exists", room.RoomNumber)
		}
		return rc.roomRepo.Create(ctx, tx, room)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Room created", "roomID", room.ID, "roomNumber", room.RoomNumber)
	return room, nil
}

// Update changes room details. Fields left out of the request keep their
// value; an empty string clears an optional field. Status is not touched.
func (rc *RoomController) Update(ctx context.Context, id uuid.UUID, req RoomRequest) (*Room, error) {
	var room *Room
	err := rc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		room, err = rc.roomRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if number := utils.CleanText(req.RoomNumber); number != "" && number != room.RoomNumber {
			exists, err := rc.roomRepo.ExistsByNumber(ctx, tx, number, room.ID)
			if err != nil {
				return err
			}
			if exists {
				return types.NewValidationError("room %s already exists", number)
			}
			room.RoomNumber = number
		}
		if floor := utils.CleanText(req.Floor); floor != "" {
			room.Floor = floor
		}
		if req.BarcodeValue != nil {
			room.BarcodeValue = utils.OptionalText(req.BarcodeValue)
		}
		if req.Notes != nil {
			room.Notes = utils.OptionalText(req.Notes)
		}
		if req.ScheduledCleaningTime != nil {
			room.ScheduledCleaningTime = nil
			if strings.TrimSpace(*req.ScheduledCleaningTime) != "" {
				scheduled, err := parseSchedule(*req.ScheduledCleaningTime)
				if err != nil {
					return err
				}
				room.ScheduledCleaningTime = scheduled
			}
		}

		return rc.roomRepo.UpdateDetails(ctx, tx, room)
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

func (rc *RoomController) Delete(ctx context.Context, id uuid.UUID) error {
	if err := rc.roomRepo.Delete(ctx, rc.db.SQL, id); err != nil {
		return err
	}

	rc.log.Function("Delete").TraceFromContext(ctx).Info("Room deleted", "roomID", id)
	return nil
}

// UpdateStatus is a manual override: any known status may be set from any
// other.
func (rc *RoomController) UpdateStatus(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req StatusRequest,
) (*Room, error) {
	log := rc.log.Function("UpdateStatus").TraceFromContext(ctx)

	target, ok := ParseRoomStatus(req.Status)
	if !ok {
		return nil, types.NewValidationError("invalid room status %q", req.Status)
	}

	var change *services.RoomChange
	err := rc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		change, err = rc.roomState.Apply(ctx, tx, id, ManualOverride{Target: target})
		return err
	})
	if err != nil {
		return nil, err
	}

	rc.roomState.Publish(ctx, change)

	log.Info("Room status overridden", "roomID", id, "userID", user.ID, "from", change.From, "to", change.To)
	return change.Room, nil
}

func (rc *RoomController) hotelCleaningTime(ctx context.Context) time.Duration {
	settings, err := rc.settingsRepo.Get(ctx, rc.db.SQL)
	if err == nil {
		return settings.CleaningOffset()
	}
	if !errors.Is(err, types.ErrNotFound) {
		rc.log.Function("hotelCleaningTime").Warn("failed to load hotel settings", "error", err)
	}

	offset, err := utils.ParseClock(rc.Config.DefaultCleaningTime)
	if err != nil {
		return fallbackCleaningTime
	}
	return offset
}

func parseSchedule(value string) (*datatypes.Time, error) {
	offset, err := utils.ParseClock(value)
	if err != nil {
		return nil, err
	}
	scheduled := datatypes.Time(offset)
	return &scheduled, nil
}
