package models

import (
	"time"

	"gorm.io/datatypes"
)

// HotelSettings is a single-row table with hotel wide defaults.
type HotelSettings struct {
	BaseUUIDModel
	CleaningStartTime datatypes.Time `gorm:"type:time;not null" json:"cleaningStartTime"`
	AllowOffline      bool           `gorm:"type:bool;not null" json:"allowOffline"`
}

func (HotelSettings) TableName() string {
	return "hotel_settings"
}

func (s *HotelSettings) CleaningOffset() time.Duration {
	return time.Duration(s.CleaningStartTime)
}
