package repository

import (
	"errors"

	"gorm.io/gorm"

	"studybuddy/internal/models"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) Create(c *models.Challenge) error {
	return r.db.Create(c).Error
}

func (r *ChallengeRepository) GetByID(id uint) (*models.Challenge, error) {
	var c models.Challenge
	err := r.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *ChallengeRepository) ListFor(userID uint) ([]models.Challenge, error) {
	var out []models.Challenge
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *ChallengeRepository) ListForByStatus(userID uint, status string) ([]models.Challenge, error) {
	var out []models.Challenge
	err := r.db.Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *ChallengeRepository) Update(c *models.Challenge) error {
	return r.db.Save(c).Error
}

func (r *ChallengeRepository) Delete(id, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Challenge{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
