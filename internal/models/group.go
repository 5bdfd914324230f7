package models

import "time"

type StudyGroup struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Members     int       `gorm:"default:1" json:"members"`
	Online      int       `gorm:"default:0" json:"online"`
	Avatar      string    `gorm:"size:200" json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
}

func (StudyGroup) TableName() string { return "study_groups" }

type StudyGroupMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GroupID  uint      `gorm:"not null;index:idx_group_member,unique" json:"group_id"`
	UserID   uint      `gorm:"not null;index:idx_group_member,unique" json:"user_id"`
	Role     string    `gorm:"size:20;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	Group StudyGroup `gorm:"foreignKey:GroupID" json:"-"`
	User  User       `gorm:"foreignKey:UserID" json:"-"`
}

func (StudyGroupMember) TableName() string { return "study_group_members" }
