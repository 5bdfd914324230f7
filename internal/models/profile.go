package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Profile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio            string         `gorm:"type:text" json:"bio"`
	Interests      string         `gorm:"size:200" json:"interests"` // comma-separated tags
	Specialization string         `gorm:"size:100" json:"specialization"`
	Level          string         `gorm:"size:50;default:'Beginner'" json:"level"`
	Schedule       string         `gorm:"size:100" json:"schedule"`
	PictureURL     string         `gorm:"size:255" json:"profile_picture"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Profile) TableName() string { return "profiles" }

// InterestList splits the comma-separated interests into trimmed tags,
// preserving original casing. Empty when no interests are set.
func (p *Profile) InterestList() []string {
	if p.Interests == "" {
		return []string{}
	}
	parts := strings.Split(p.Interests, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
