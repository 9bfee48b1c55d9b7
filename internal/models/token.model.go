package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "ACCESS"
	TokenTypeRefresh TokenType = "REFRESH"
)

// Token is a session registry entry. A token string is only honoured while
// its entry is neither expired nor revoked.
type Token struct {
	BaseUUIDModel
	Token   string    `gorm:"type:text;uniqueIndex;not null"  json:"-"`
	Type    TokenType `gorm:"type:text;not null;index"        json:"type"`
	Expired bool      `gorm:"type:bool;not null"              json:"expired"`
	Revoked bool      `gorm:"type:bool;not null"              json:"revoked"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"        json:"userId"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.UserID == uuid.Nil || t.Token == "" {
		return gorm.ErrInvalidValue
	}
	if t.Type == "" {
		t.Type = TokenTypeAccess
	}
	return nil
}

func (t *Token) IsLive() bool {
	return !t.Expired && !t.Revoked
}
