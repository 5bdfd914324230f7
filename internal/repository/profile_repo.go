package repository

import (
	"errors"

	"gorm.io/gorm"

	"studybuddy/internal/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &profile, err
}

func (r *ProfileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// Upsert creates the profile on first save and updates it afterwards.
func (r *ProfileRepository) Upsert(profile *models.Profile) error {
	existing, err := r.GetByUserID(profile.UserID)
	if errors.Is(err, ErrNotFound) {
		return r.Create(profile)
	}
	if err != nil {
		return err
	}
	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	return r.Update(profile)
}
