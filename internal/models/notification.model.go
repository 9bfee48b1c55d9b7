package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeAssignment   NotificationType = "ASSIGNMENT"
	NotificationTypeUnassignment NotificationType = "UNASSIGNMENT"
	NotificationTypeIncident     NotificationType = "INCIDENT"
	NotificationTypeRoomUpdate   NotificationType = "ROOM_UPDATE"
)

type Notification struct {
	BaseUUIDModel
	UserID uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_user" json:"userId"`
	Title  string           `gorm:"type:text;not null"                              json:"title"`
	Body   string           `gorm:"type:text;not null"                              json:"body"`
	Type   NotificationType `gorm:"type:text;not null"                              json:"type"`
	IsRead bool             `gorm:"type:bool;not null"                              json:"isRead"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.UserID == uuid.Nil || n.Title == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
