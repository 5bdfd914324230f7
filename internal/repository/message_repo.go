package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"studybuddy/internal/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(msg *models.Message) error {
	return r.db.Create(msg).Error
}

func pairClause(db *gorm.DB, a, b uint) *gorm.DB {
	return db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
}

// Between returns one page of the conversation between two users, oldest
// first within the page. Page 1 holds the most recent messages.
func (r *MessageRepository) Between(a, b uint, page, perPage int) ([]models.Message, int64, error) {
	var total int64
	if err := pairClause(r.db.Model(&models.Message{}), a, b).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []models.Message
	err := pairClause(r.db, a, b).
		Order("timestamp DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&msgs).Error
	if err != nil {
		return nil, 0, err
	}

	// Reverse into chronological order for display.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, total, nil
}

func (r *MessageRepository) CountBetween(a, b uint) (int64, error) {
	var count int64
	err := pairClause(r.db.Model(&models.Message{}), a, b).Count(&count).Error
	return count, err
}

// DeleteOldestBetween removes the n oldest messages of the conversation.
// MySQL cannot DELETE from a subquery on the same table, so ids are
// collected first.
func (r *MessageRepository) DeleteOldestBetween(a, b uint, n int) (int64, error) {
	var ids []uint
	err := pairClause(r.db.Model(&models.Message{}), a, b).
		Order("timestamp ASC, id ASC").
		Limit(n).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.Delete(&models.Message{}, ids)
	return res.RowsAffected, res.Error
}

// DeleteOlderThan hard-deletes every message with a timestamp before the
// cutoff. Runs in a transaction so a failure leaves the table untouched.
func (r *MessageRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("timestamp < ?", cutoff).Delete(&models.Message{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

// MarkRead flags all messages from sender to receiver as read.
func (r *MessageRepository) MarkRead(senderID, receiverID uint) error {
	return r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND `read` = ?", senderID, receiverID, false).
		Update("read", true).Error
}

func (r *MessageRepository) CountUnreadFrom(senderID, receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND `read` = ?", senderID, receiverID, false).
		Count(&count).Error
	return count, err
}

func (r *MessageRepository) CountUnreadFor(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("receiver_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	return count, err
}

// LastBetween returns the most recent message of the conversation, or
// ErrNotFound when the conversation is empty.
func (r *MessageRepository) LastBetween(a, b uint) (*models.Message, error) {
	var msg models.Message
	err := pairClause(r.db, a, b).Order("timestamp DESC, id DESC").First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Count(&count).Error
	return count, err
}
