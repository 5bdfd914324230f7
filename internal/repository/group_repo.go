package repository

import (
	"errors"

	"gorm.io/gorm"

	"studybuddy/internal/models"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(g *models.StudyGroup) error {
	return r.db.Create(g).Error
}

func (r *GroupRepository) GetByID(id uint) (*models.StudyGroup, error) {
	var g models.StudyGroup
	err := r.db.First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &g, err
}

func (r *GroupRepository) List() ([]models.StudyGroup, error) {
	var out []models.StudyGroup
	err := r.db.Order("members DESC").Find(&out).Error
	return out, err
}

func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.StudyGroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMember inserts the membership and bumps the member counter in one
// transaction.
func (r *GroupRepository) AddMember(m *models.StudyGroupMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&models.StudyGroup{}).
			Where("id = ?", m.GroupID).
			Update("members", gorm.Expr("members + 1")).Error
	})
}

func (r *GroupRepository) RemoveMember(groupID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&models.StudyGroupMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.StudyGroup{}).
			Where("id = ? AND members > 0", groupID).
			Update("members", gorm.Expr("members - 1")).Error
	})
}

func (r *GroupRepository) GroupsFor(userID uint) ([]models.StudyGroup, error) {
	var out []models.StudyGroup
	err := r.db.Joins("JOIN study_group_members m ON m.group_id = study_groups.id").
		Where("m.user_id = ?", userID).
		Find(&out).Error
	return out, err
}
