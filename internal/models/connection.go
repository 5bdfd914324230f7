package models

import (
	"time"
)

// BuddyConnection is a directed edge: UserID initiated the request towards
// BuddyID. At most one row exists per unordered pair; the repository checks
// both directions before inserting.
type BuddyConnection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_connection_pair,unique" json:"user_id"`
	BuddyID   uint      `gorm:"not null;index:idx_connection_pair,unique" json:"buddy_id"`
	Status    string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`

	Initiator User `gorm:"foreignKey:UserID" json:"-"`
	Buddy     User `gorm:"foreignKey:BuddyID" json:"-"`
}

func (BuddyConnection) TableName() string { return "buddy_connections" }
