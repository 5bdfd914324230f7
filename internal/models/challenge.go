package models

import "time"

type Challenge struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Progress    int        `gorm:"default:0" json:"progress"`
	Total       int        `gorm:"default:100" json:"total"`
	XP          int        `gorm:"default:0" json:"xp"`
	Status      string     `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Challenge) TableName() string { return "challenges" }

// UpdateProgress advances the challenge and flips it to completed when the
// target is reached.
func (c *Challenge) UpdateProgress(progress int, now time.Time) {
	c.Progress = progress
	if c.Progress >= c.Total && c.Status != "completed" {
		c.Status = "completed"
		c.CompletedAt = &now
	}
}
