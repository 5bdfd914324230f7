package service

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"studybuddy/config"
	"studybuddy/internal/domain"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
	"studybuddy/internal/ws"
	"studybuddy/pkg/logger"
)

var (
	ErrEmptyMessage   = errors.New("message content is empty")
	ErrMessageTooLong = errors.New("message exceeds maximum length")
	ErrNotConnected   = errors.New("no approved connection with this user")
)

// trimBatchSize messages are dropped from the oldest end of a conversation
// whenever it grows past the configured cap. A fixed batch keeps the delete
// cheap instead of trimming to the exact limit on every send.
const trimBatchSize = 100

type ChatService struct {
	messages *repository.MessageRepository
	users    *repository.UserRepository
	buddies  *BuddyService
	notify   *NotificationService
	hub      *ws.Hub
	cfg      config.ChatConfig
}

func NewChatService(
	messages *repository.MessageRepository,
	users *repository.UserRepository,
	buddies *BuddyService,
	notify *NotificationService,
	hub *ws.Hub,
	cfg config.ChatConfig,
) *ChatService {
	return &ChatService{
		messages: messages,
		users:    users,
		buddies:  buddies,
		notify:   notify,
		hub:      hub,
		cfg:      cfg,
	}
}

// Send validates, stores and fans out a chat message. The message is
// durable once the insert commits; notification, websocket push and the
// size-cap trim all run after and can fail without losing it.
func (s *ChatService) Send(senderID, receiverID uint, content, messageType string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > domain.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	connected, err := s.buddies.IsConnected(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotConnected
	}

	now := time.Now()
	expires := now.AddDate(0, 0, s.cfg.RetentionDays)
	msg := &models.Message{
		SenderID:    &senderID,
		ReceiverID:  &receiverID,
		Content:     content,
		Timestamp:   now,
		MessageType: messageType,
		ExpiresAt:   &expires,
	}
	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}

	if sender, err := s.users.GetByID(senderID); err == nil {
		s.notify.NewMessage(receiverID, sender, content)
	}
	s.hub.PushToUser(receiverID, map[string]interface{}{
		"type":    "message",
		"payload": msg,
	})

	s.enforceSizeCap(senderID, receiverID)
	return msg, nil
}

// SendNote wraps shared study material in a note-typed message.
func (s *ChatService) SendNote(senderID, receiverID uint, content string) (*models.Message, error) {
	return s.Send(senderID, receiverID, "Note: "+strings.TrimSpace(content), domain.MessageTypeNote)
}

// SendChallenge shares a study challenge as a challenge-typed message.
func (s *ChatService) SendChallenge(senderID, receiverID uint, content string) (*models.Message, error) {
	return s.Send(senderID, receiverID, content, domain.MessageTypeChallenge)
}

// enforceSizeCap trims the oldest batch when the conversation exceeds the
// configured cap. Failures are logged only; the send already succeeded.
func (s *ChatService) enforceSizeCap(a, b uint) {
	if s.cfg.MaxMessagesPerConversation <= 0 {
		return
	}
	count, err := s.messages.CountBetween(a, b)
	if err != nil {
		logger.Error("conversation size check failed",
			zap.Uint("user_a", a), zap.Uint("user_b", b), zap.Error(err))
		return
	}
	if count <= int64(s.cfg.MaxMessagesPerConversation) {
		return
	}
	deleted, err := s.messages.DeleteOldestBetween(a, b, trimBatchSize)
	if err != nil {
		logger.Error("conversation trim failed",
			zap.Uint("user_a", a), zap.Uint("user_b", b), zap.Error(err))
		return
	}
	logger.Info("trimmed conversation",
		zap.Uint("user_a", a), zap.Uint("user_b", b),
		zap.Int64("count", count), zap.Int64("deleted", deleted))
}

// History returns one page of the conversation and marks the incoming
// messages of that conversation as read.
func (s *ChatService) History(userID, buddyID uint, page int) ([]models.Message, int64, error) {
	connected, err := s.buddies.IsConnected(userID, buddyID)
	if err != nil {
		return nil, 0, err
	}
	if !connected {
		return nil, 0, ErrNotConnected
	}
	if page < 1 {
		page = 1
	}

	msgs, total, err := s.messages.Between(userID, buddyID, page, s.cfg.MessagesPerPage)
	if err != nil {
		return nil, 0, err
	}
	if err := s.messages.MarkRead(buddyID, userID); err != nil {
		logger.Warn("mark messages read failed",
			zap.Uint("user_id", userID), zap.Uint("buddy_id", buddyID), zap.Error(err))
	}
	return msgs, total, nil
}

// Conversation summarizes one buddy thread for the inbox listing.
type Conversation struct {
	Buddy       BuddyEntry      `json:"buddy"`
	LastMessage *models.Message `json:"last_message"`
	Unread      int64           `json:"unread"`
	Online      bool            `json:"online"`
}

// Conversations lists all approved buddies with their latest message and
// unread count, most recent activity first.
func (s *ChatService) Conversations(userID uint) ([]Conversation, error) {
	buddies, err := s.buddies.Connected(userID)
	if err != nil {
		return nil, err
	}

	out := make([]Conversation, 0, len(buddies))
	for _, b := range buddies {
		conv := Conversation{Buddy: b, Online: s.hub.IsOnline(b.ID)}

		last, err := s.messages.LastBetween(userID, b.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		conv.LastMessage = last

		unread, err := s.messages.CountUnreadFrom(b.ID, userID)
		if err != nil {
			return nil, err
		}
		conv.Unread = unread

		out = append(out, conv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti := time.Time{}
		tj := time.Time{}
		if out[i].LastMessage != nil {
			ti = out[i].LastMessage.Timestamp
		}
		if out[j].LastMessage != nil {
			tj = out[j].LastMessage.Timestamp
		}
		return ti.After(tj)
	})
	return out, nil
}

func (s *ChatService) UnreadTotal(userID uint) (int64, error) {
	return s.messages.CountUnreadFor(userID)
}
