package repositories

import (
	"context"
	"time"

	"hotelparadise/internal/constants"
	appContext "hotelparadise/internal/context"
	"hotelparadise/internal/database"
	. "hotelparadise/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// cachedSettings keeps the time of day as a plain offset so the cache does not
// depend on datatypes.Time's JSON form.
type cachedSettings struct {
	ID                uuid.UUID     `json:"id"`
	CleaningStartTime time.Duration `json:"cleaningStartTime"`
	AllowOffline      bool          `json:"allowOffline"`
}

type HotelSettingsRepository interface {
	Get(ctx context.Context, tx *gorm.DB) (*HotelSettings, error)
	Save(ctx context.Context, tx *gorm.DB, settings *HotelSettings) error
}

type hotelSettingsRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewHotelSettingsRepository(cache database.CacheClient) HotelSettingsRepository {
	return &hotelSettingsRepository{
		cache: cache,
		log:   logger.New("hotelSettingsRepository"),
	}
}

// Get returns the single settings row, or a NotFound error when none exists.
func (r *hotelSettingsRepository) Get(ctx context.Context, tx *gorm.DB) (*HotelSettings, error) {
	log := r.log.Function("Get")

	var cached cachedSettings
	found, err := database.NewCacheBuilder(r.cache, constants.HotelSettingsCacheKey).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		log.Debug("settings cache unavailable", "error", err)
	}
	if found {
		settings := &HotelSettings{
			CleaningStartTime: datatypes.Time(cached.CleaningStartTime),
			AllowOffline:      cached.AllowOffline,
		}
		settings.ID = cached.ID
		return settings, nil
	}

	var settings HotelSettings
	if err := tx.WithContext(ctx).Order("created_at ASC").First(&settings).Error; err != nil {
		return nil, notFoundOr(err, "hotel settings not configured")
	}

	if err := database.NewCacheBuilder(r.cache, constants.HotelSettingsCacheKey).
		WithContext(ctx).
		WithStruct(cachedSettings{
			ID:                settings.ID,
			CleaningStartTime: settings.CleaningOffset(),
			AllowOffline:      settings.AllowOffline,
		}).
		WithTTL(constants.HotelSettingsCacheExpiry).
		Set(); err != nil {
		log.Debug("failed to cache settings", "error", err)
	}

	return &settings, nil
}

// Save inserts the row when settings has no id and updates it otherwise.
func (r *hotelSettingsRepository) Save(ctx context.Context, tx *gorm.DB, settings *HotelSettings) error {
	log := r.log.Function("Save")

	var err error
	if settings.ID == uuid.Nil {
		err = tx.WithContext(ctx).Create(settings).Error
	} else {
		err = tx.WithContext(ctx).
			Model(&HotelSettings{}).
			Where("id = ?", settings.ID).
			Updates(map[string]any{
				"cleaning_start_time": settings.CleaningStartTime,
				"allow_offline":       settings.AllowOffline,
			}).Error
	}
	if err != nil {
		return log.Err("failed to save hotel settings", err)
	}

	appContext.AfterCommit(ctx, func() {
		if err := database.NewCacheBuilder(r.cache, constants.HotelSettingsCacheKey).
			WithContext(ctx).
			Delete(); err != nil {
			log.Debug("failed to clear settings cache", "error", err)
		}
	})

	return nil
}
