package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomAssignment links a housekeeper to a room. At most one active
// assignment exists per room.
type RoomAssignment struct {
	BaseUUIDModel
	RoomID uuid.UUID `gorm:"type:uuid;not null;index:idx_room_assignments_room" json:"roomId"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_room_assignments_user" json:"userId"`
	Active bool      `gorm:"type:bool;not null"                                 json:"active"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (a *RoomAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.RoomID == uuid.Nil || a.UserID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return nil
}
