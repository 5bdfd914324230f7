package models

import (
	"time"
)

// Message rows are hard-deleted by the retention mechanisms; a soft-delete
// column would defeat the storage bound. Sender and receiver are nullable so
// messages survive account deletion.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    *uint     `gorm:"index" json:"sender_id"`
	ReceiverID  *uint     `gorm:"index" json:"receiver_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Timestamp   time.Time `gorm:"index;not null" json:"timestamp"`
	Read        bool      `gorm:"default:false" json:"read"`
	MessageType string    `gorm:"size:20;default:'text'" json:"message_type"`
	// Fixed at creation: timestamp plus the retention window configured at
	// that moment. The hourly sweep works from the timestamp instead, so a
	// retention config change affects old messages too.
	ExpiresAt *time.Time `json:"expires_at"`
}

func (Message) TableName() string { return "messages" }
