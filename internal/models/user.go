package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Avatar       string     `gorm:"size:255" json:"avatar"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login"`
	// Password reset codes live on the user row so they survive restarts
	// and work across multiple instances.
	ResetCode          string         `gorm:"size:10" json:"-"`
	ResetCodeExpiresAt *time.Time     `json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (User) TableName() string { return "users" }
