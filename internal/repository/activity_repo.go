package repository

import (
	"gorm.io/gorm"

	"studybuddy/internal/models"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(a *models.Activity) error {
	return r.db.Create(a).Error
}

func (r *ActivityRepository) RecentFor(userID uint, limit int) ([]models.Activity, error) {
	var out []models.Activity
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *ActivityRepository) TotalXP(userID uint) (int, error) {
	var total int64
	err := r.db.Model(&models.Activity{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(xp), 0)").
		Scan(&total).Error
	return int(total), err
}
