package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomStatusInUse           RoomStatus = "IN_USE"
	RoomStatusPendingCleaning RoomStatus = "PENDING_CLEANING"
	RoomStatusCleaning        RoomStatus = "CLEANING"
	RoomStatusClean           RoomStatus = "CLEAN"
	RoomStatusBlockedIncident RoomStatus = "BLOCKED_INCIDENT"
)

var RoomStatuses = []RoomStatus{
	RoomStatusInUse,
	RoomStatusPendingCleaning,
	RoomStatusCleaning,
	RoomStatusClean,
	RoomStatusBlockedIncident,
}

func (s RoomStatus) IsValid() bool {
	for _, status := range RoomStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ParseRoomStatus(value string) (RoomStatus, bool) {
	status := RoomStatus(strings.ToUpper(strings.TrimSpace(value)))
	return status, status.IsValid()
}

type Room struct {
	BaseUUIDModel
	RoomNumber            string          `gorm:"type:text;not null;uniqueIndex:idx_rooms_room_number,where:deleted_at IS NULL" json:"roomNumber"`
	Floor                 string          `gorm:"type:text;not null;index"                                                     json:"floor"`
	BarcodeValue          *string         `gorm:"type:text;uniqueIndex:idx_rooms_barcode,where:deleted_at IS NULL"              json:"barcodeValue,omitempty"`
	CurrentStatus         RoomStatus      `gorm:"type:text;not null;default:CLEAN;index"                                       json:"currentStatus"`
	LastStatusChange      *time.Time      `gorm:"type:timestamptz"                                                             json:"lastStatusChange,omitempty"`
	ScheduledCleaningTime *datatypes.Time `gorm:"type:time"                                                                    json:"scheduledCleaningTime,omitempty"`
	Notes                 *string         `gorm:"type:text"                                                                    json:"notes,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(r.RoomNumber) == "" {
		return gorm.ErrInvalidValue
	}
	if r.CurrentStatus == "" {
		r.CurrentStatus = RoomStatusClean
	}
	if !r.CurrentStatus.IsValid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// PhotoFolder is the storage folder holding this room's incident photos.
func (r *Room) PhotoFolder() string {
	return fmt.Sprintf("HTL-%s-%s", r.Floor, r.RoomNumber)
}

// CleaningOffset returns the room's cleaning time as an offset from midnight.
// It reports false when the room has no scheduled cleaning time.
func (r *Room) CleaningOffset() (time.Duration, bool) {
	if r.ScheduledCleaningTime == nil {
		return 0, false
	}
	return time.Duration(*r.ScheduledCleaningTime), true
}
