package models

import (
	"strings"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleHousekeeper Role = "HOUSEKEEPER"
)

// Client-facing role names kept from the mobile app contract.
const (
	ClientRoleAdmin = "ADMIN_ROLE"
	ClientRoleUser  = "USER_ROLE"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleHousekeeper
}

func (r Role) ClientRole() string {
	if r == RoleAdmin {
		return ClientRoleAdmin
	}
	return ClientRoleUser
}

// ParseRole accepts both the stored names and the client-facing names.
func ParseRole(value string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(RoleAdmin), ClientRoleAdmin:
		return RoleAdmin, true
	case string(RoleHousekeeper), ClientRoleUser, "CAMARERA":
		return RoleHousekeeper, true
	}
	return "", false
}

type User struct {
	BaseUUIDModel
	Name         string  `gorm:"type:text;not null"                     json:"name"`
	Email        string  `gorm:"type:text;uniqueIndex;not null"         json:"email"`
	PasswordHash string  `gorm:"type:text;not null"                     json:"-"`
	Role         Role    `gorm:"type:text;not null;default:HOUSEKEEPER;index" json:"role"`
	Status       bool    `gorm:"type:bool;not null;default:true"        json:"status"`
	FCMToken     *string `gorm:"column:fcm_token;type:varchar(500)"     json:"fcmToken,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" || u.PasswordHash == "" {
		return gorm.ErrInvalidValue
	}
	if u.Role == "" {
		u.Role = RoleHousekeeper
	}
	if !u.Role.IsValid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u *User) HasPushAddress() bool {
	return u.FCMToken != nil && *u.FCMToken != ""
}

type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"rol"`
	Status bool   `json:"status"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:     u.ID.String(),
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role.ClientRole(),
		Status: u.Status,
	}
}
