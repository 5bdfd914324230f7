package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Type      string         `gorm:"size:50;not null;index" json:"type"`
	Title     string         `gorm:"size:255" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Data      string         `gorm:"type:text" json:"data"` // JSON payload
	Read      bool           `gorm:"default:false;index" json:"read"`
	Timestamp time.Time      `gorm:"index" json:"timestamp"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// SetData serializes the payload into the Data column.
func (n *Notification) SetData(v map[string]interface{}) {
	if v == nil {
		n.Data = ""
		return
	}
	b, _ := json.Marshal(v)
	n.Data = string(b)
}
