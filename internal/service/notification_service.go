package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"studybuddy/internal/domain"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
	"studybuddy/internal/ws"
	"studybuddy/pkg/logger"
)

type NotificationService struct {
	notifications *repository.NotificationRepository
	hub           *ws.Hub
}

func NewNotificationService(notifications *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{notifications: notifications, hub: hub}
}

// Notify stores the notification and pushes it to the recipient's open
// websocket connections. A push failure never fails the caller; the stored
// row is the source of truth.
func (s *NotificationService) Notify(userID uint, typ, title, message string, data map[string]interface{}) error {
	n := &models.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
	n.SetData(data)

	if err := s.notifications.Create(n); err != nil {
		logger.Error("store notification failed",
			zap.Uint("user_id", userID), zap.String("type", typ), zap.Error(err))
		return err
	}

	s.hub.PushToUser(userID, map[string]interface{}{
		"type":    "notification",
		"payload": n,
	})
	return nil
}

func (s *NotificationService) ConnectionRequest(recipientID uint, from *models.User) {
	s.Notify(recipientID, domain.NotificationConnectionRequest,
		"New buddy request",
		fmt.Sprintf("%s wants to connect with you", from.Username),
		map[string]interface{}{"user_id": from.ID, "username": from.Username})
}

func (s *NotificationService) ConnectionAccepted(recipientID uint, by *models.User) {
	s.Notify(recipientID, domain.NotificationConnectionAccepted,
		"Buddy request accepted",
		fmt.Sprintf("%s accepted your buddy request", by.Username),
		map[string]interface{}{"user_id": by.ID, "username": by.Username})
}

func (s *NotificationService) NewMessage(recipientID uint, from *models.User, preview string) {
	if len(preview) > 80 {
		preview = preview[:77] + "..."
	}
	s.Notify(recipientID, domain.NotificationMessage,
		fmt.Sprintf("New message from %s", from.Username),
		preview,
		map[string]interface{}{"user_id": from.ID, "username": from.Username})
}

func (s *NotificationService) ListFor(userID uint, unreadOnly bool, offset, limit int) ([]models.Notification, error) {
	return s.notifications.ListFor(userID, unreadOnly, offset, limit)
}

func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.notifications.CountUnread(userID)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.notifications.MarkRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notifications.MarkAllRead(userID)
}

func (s *NotificationService) Delete(id, userID uint) error {
	return s.notifications.Delete(id, userID)
}
