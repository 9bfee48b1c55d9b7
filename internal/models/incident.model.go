package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IncidentStatus string

const (
	IncidentStatusOpen     IncidentStatus = "OPEN"
	IncidentStatusInReview IncidentStatus = "IN_REVIEW"
	IncidentStatusResolved IncidentStatus = "RESOLVED"
)

func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusOpen, IncidentStatusInReview, IncidentStatusResolved:
		return true
	}
	return false
}

type Incident struct {
	BaseUUIDModel
	RoomID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_incidents_room"  json:"roomId"`
	ReportedByUserID uuid.UUID      `gorm:"type:uuid;not null;index:idx_incidents_user"  json:"reportedById"`
	Title            string         `gorm:"type:text;not null"                           json:"title"`
	Description      *string        `gorm:"type:text"                                    json:"description,omitempty"`
	Status           IncidentStatus `gorm:"type:text;not null;default:OPEN;index"        json:"status"`
	ResolvedAt       *time.Time     `gorm:"type:timestamptz"                             json:"resolvedAt,omitempty"`
	IsOffline        bool           `gorm:"type:bool;not null"                           json:"isOffline"`
	IsSynced         bool           `gorm:"type:bool;not null"                           json:"isSynced"`
	SyncedAt         *time.Time     `gorm:"type:timestamptz"                             json:"syncedAt,omitempty"`

	Photos     []IncidentPhoto `gorm:"foreignKey:IncidentID"       json:"-"`
	Room       *Room           `gorm:"foreignKey:RoomID"           json:"room,omitempty"`
	ReportedBy *User           `gorm:"foreignKey:ReportedByUserID" json:"reportedBy,omitempty"`
}

func (i *Incident) BeforeCreate(tx *gorm.DB) error {
	if i.RoomID == uuid.Nil || i.ReportedByUserID == uuid.Nil || i.Title == "" {
		return gorm.ErrInvalidValue
	}
	if i.Status == "" {
		i.Status = IncidentStatusOpen
	}
	return nil
}

func (i *Incident) IsResolved() bool {
	return i.Status == IncidentStatusResolved
}

// PhotoKeys returns the stored photo references in upload order.
func (i *Incident) PhotoKeys() []string {
	keys := make([]string, 0, len(i.Photos))
	for _, photo := range i.Photos {
		keys = append(keys, photo.PhotoURL)
	}
	return keys
}

// StoredKeys returns only the references of photos uploaded with this
// incident. References supplied by the client are never deleted.
func (i *Incident) StoredKeys() []string {
	keys := make([]string, 0, len(i.Photos))
	for _, photo := range i.Photos {
		if photo.Stored {
			keys = append(keys, photo.PhotoURL)
		}
	}
	return keys
}

// IncidentPhoto is owned by its incident; clearing the photos of an incident
// must also delete the objects it stored.
type IncidentPhoto struct {
	BaseUUIDModel
	IncidentID uuid.UUID `gorm:"type:uuid;not null;index:idx_incident_photos_incident" json:"incidentId"`
	PhotoURL   string    `gorm:"type:text;not null"                                     json:"photoUrl"`
	Position   int       `gorm:"type:int;not null"                                      json:"position"`
	Stored     bool      `gorm:"type:bool;not null;default:false"                       json:"-"`
}

func (p *IncidentPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.IncidentID == uuid.Nil || p.PhotoURL == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
