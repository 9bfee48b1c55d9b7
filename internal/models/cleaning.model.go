package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CleaningSource string

const (
	CleaningSourceScan   CleaningSource = "SCAN"
	CleaningSourceManual CleaningSource = "MANUAL"
)

func (s CleaningSource) IsValid() bool {
	return s == CleaningSourceScan || s == CleaningSourceManual
}

type Cleaning struct {
	BaseUUIDModel
	RoomID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_cleanings_room" json:"roomId"`
	CleanedByUserID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_cleanings_user" json:"cleanedById"`
	CleaningDatetime time.Time      `gorm:"type:timestamptz;not null;index"            json:"cleaningDateTime"`
	Source           CleaningSource `gorm:"type:text;not null"                          json:"source"`
	IsOffline        bool           `gorm:"type:bool;not null"                          json:"isOffline"`
	IsSynced         bool           `gorm:"type:bool;not null"                          json:"isSynced"`
	SyncedAt         *time.Time     `gorm:"type:timestamptz"                            json:"syncedAt,omitempty"`

	Room      *Room `gorm:"foreignKey:RoomID"          json:"room,omitempty"`
	CleanedBy *User `gorm:"foreignKey:CleanedByUserID" json:"cleanedBy,omitempty"`
}

func (c *Cleaning) BeforeCreate(tx *gorm.DB) error {
	if c.RoomID == uuid.Nil || c.CleanedByUserID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if c.Source == "" {
		c.Source = CleaningSourceManual
	}
	if c.CleaningDatetime.IsZero() {
		c.CleaningDatetime = time.Now()
	}
	return nil
}
