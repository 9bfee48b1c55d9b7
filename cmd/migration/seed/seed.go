package seed

import (
	"fmt"
	"time"

	"hotelparadise/config"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed adds a housekeeper and two floors of rooms for local development.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	if err := seedHousekeeper(db, log); err != nil {
		return log.Err("failed to seed housekeeper", err)
	}

	if err := seedRooms(db, log); err != nil {
		return log.Err("failed to seed rooms", err)
	}

	return nil
}

func seedHousekeeper(db *gorm.DB, log logger.Logger) error {
	var count int64
	if err := db.Model(&User{}).Where("email = ?", "camarera@hotel.com").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Housekeeper already exists")
		return nil
	}

	hash, err := services.NewPasswordService().Hash("camarera123")
	if err != nil {
		return err
	}

	return db.Create(&User{
		Name:         "María García",
		Email:        "camarera@hotel.com",
		PasswordHash: hash,
		Role:         RoleHousekeeper,
		Status:       true,
	}).Error
}

func seedRooms(db *gorm.DB, log logger.Logger) error {
	var settings HotelSettings
	scheduled := datatypes.NewTime(14, 0, 0, 0)
	if err := db.First(&settings).Error; err == nil {
		scheduled = settings.CleaningStartTime
	}

	now := time.Now()
	for floor := 1; floor <= 2; floor++ {
		for number := 1; number <= 5; number++ {
			roomNumber := fmt.Sprintf("%d%02d", floor, number)

			var existing Room
			if err := db.First(&existing, "room_number = ?", roomNumber).Error; err == nil {
				log.Debug("Room already exists", "roomNumber", roomNumber)
				continue
			}

			schedule := scheduled
			room := Room{
				RoomNumber:            roomNumber,
				Floor:                 fmt.Sprint(floor),
				BarcodeValue:          stringPtr("ROOM-" + roomNumber),
				CurrentStatus:         RoomStatusClean,
				LastStatusChange:      &now,
				ScheduledCleaningTime: &schedule,
			}
			if err := db.Create(&room).Error; err != nil {
				return log.Err("failed to create room", err, "roomNumber", roomNumber)
			}
		}
	}

	log.Info("Rooms seeded", "count", 10)
	return nil
}
