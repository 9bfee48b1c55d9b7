package initialize

import (
	"errors"
	"time"

	"hotelparadise/config"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/services"
	"hotelparadise/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BootstrapAdminName     = "Administrador/Recepción"
	BootstrapAdminEmail    = "admin@hotel.com"
	BootstrapAdminPassword = "admin123"
)

// InitializeTables creates the rows the service cannot run without.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeHotelSettings(db, config, log); err != nil {
		return log.Err("failed to initialize hotel settings", err)
	}

	if err := initializeAdmin(db, log); err != nil {
		return log.Err("failed to initialize administrator", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeHotelSettings(db *gorm.DB, config config.Config, log logger.Logger) error {
	var existing HotelSettings
	err := db.First(&existing).Error
	if err == nil {
		log.Debug("Hotel settings already exist", "cleaningStartTime", existing.CleaningStartTime.String())
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	offset, err := utils.ParseClock(config.DefaultCleaningTime)
	if err != nil {
		log.Warn("Invalid DEFAULT_CLEANING_TIME, using 14:00", "value", config.DefaultCleaningTime)
		offset = 14 * time.Hour
	}

	settings := HotelSettings{CleaningStartTime: datatypes.Time(offset)}
	if err := db.Create(&settings).Error; err != nil {
		return err
	}

	log.Info("Hotel settings created", "cleaningStartTime", settings.CleaningStartTime.String())
	return nil
}

func initializeAdmin(db *gorm.DB, log logger.Logger) error {
	var count int64
	if err := db.Model(&User{}).Where("email = ?", BootstrapAdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Debug("Administrator already exists", "email", BootstrapAdminEmail)
		return nil
	}

	hash, err := services.NewPasswordService().Hash(BootstrapAdminPassword)
	if err != nil {
		return err
	}

	admin := User{
		Name:         BootstrapAdminName,
		Email:        BootstrapAdminEmail,
		PasswordHash: hash,
		Role:         RoleAdmin,
		Status:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Warn("Bootstrap administrator created, change its password", "email", BootstrapAdminEmail)
	return nil
}
