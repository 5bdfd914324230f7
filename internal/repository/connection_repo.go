package repository

import (
	"errors"

	"gorm.io/gorm"

	"studybuddy/internal/domain"
	"studybuddy/internal/models"
)

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) Create(conn *models.BuddyConnection) error {
	return r.db.Create(conn).Error
}

func (r *ConnectionRepository) GetByID(id uint) (*models.BuddyConnection, error) {
	var conn models.BuddyConnection
	err := r.db.First(&conn, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &conn, err
}

// GetBetween finds the connection row for the unordered pair, whichever
// direction it was created in.
func (r *ConnectionRepository) GetBetween(a, b uint) (*models.BuddyConnection, error) {
	var conn models.BuddyConnection
	err := r.db.Where("(user_id = ? AND buddy_id = ?) OR (user_id = ? AND buddy_id = ?)", a, b, b, a).
		First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &conn, err
}

func (r *ConnectionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.BuddyConnection{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ConnectionRepository) Delete(id uint) error {
	return r.db.Delete(&models.BuddyConnection{}, id).Error
}

// PendingFor returns incoming pending requests addressed to the user,
// newest first, with initiator (and profile) preloaded.
func (r *ConnectionRepository) PendingFor(userID uint) ([]models.BuddyConnection, error) {
	var conns []models.BuddyConnection
	err := r.db.Preload("Initiator").Preload("Initiator.Profile").
		Where("buddy_id = ? AND status = ?", userID, domain.ConnectionPending).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

// ApprovedFor returns accepted connections touching the user in either
// direction.
func (r *ConnectionRepository) ApprovedFor(userID uint) ([]models.BuddyConnection, error) {
	var conns []models.BuddyConnection
	err := r.db.Where("(user_id = ? OR buddy_id = ?) AND status = ?", userID, userID, domain.ConnectionApproved).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

// ForUser returns every connection touching the user regardless of status.
// Used to resolve per-candidate connection state in one query.
func (r *ConnectionRepository) ForUser(userID uint) ([]models.BuddyConnection, error) {
	var conns []models.BuddyConnection
	err := r.db.Where("user_id = ? OR buddy_id = ?", userID, userID).Find(&conns).Error
	return conns, err
}

func (r *ConnectionRepository) ListPending(offset, limit int) ([]models.BuddyConnection, int64, error) {
	var conns []models.BuddyConnection
	var total int64
	q := r.db.Model(&models.BuddyConnection{}).Where("status = ?", domain.ConnectionPending)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Initiator").Preload("Buddy").
		Where("status = ?", domain.ConnectionPending).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&conns).Error
	return conns, total, err
}

func (r *ConnectionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.BuddyConnection{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
