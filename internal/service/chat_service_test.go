package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/config"
	"studybuddy/internal/domain"
	"studybuddy/internal/models"
)

func defaultChatConfig() config.ChatConfig {
	return config.ChatConfig{
		RetentionDays:              30,
		MaxMessagesPerConversation: 5000,
		MessagesPerPage:            50,
	}
}

func seedMessages(t *testing.T, env *testEnv, sender, receiver uint, n int, base time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		s, r := sender, receiver
		require.NoError(t, env.db.Create(&models.Message{
			SenderID:    &s,
			ReceiverID:  &r,
			Content:     "seed",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
			MessageType: domain.MessageTypeText,
		}).Error)
	}
}

func TestSendRejectsEmptyContent(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	_, err := chat.Send(alice.ID, bob.ID, "   ", domain.MessageTypeText)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendRejectsOverlongContent(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	_, err := chat.Send(alice.ID, bob.ID, strings.Repeat("x", domain.MaxMessageLength+1), domain.MessageTypeText)
	assert.ErrorIs(t, err, ErrMessageTooLong)

	// Exactly at the limit is fine.
	_, err = chat.Send(alice.ID, bob.ID, strings.Repeat("x", domain.MaxMessageLength), domain.MessageTypeText)
	assert.NoError(t, err)
}

func TestSendRequiresApprovedConnection(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := chat.Send(alice.ID, bob.ID, "hi", domain.MessageTypeText)
	assert.ErrorIs(t, err, ErrNotConnected)

	// Pending is not enough.
	_, err = env.buddySvc.Connect(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = chat.Send(alice.ID, bob.ID, "hi", domain.MessageTypeText)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSendStoresMessageAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	msg, err := chat.Send(alice.ID, bob.ID, "  hello bob  ", domain.MessageTypeText)
	require.NoError(t, err)
	assert.Equal(t, "hello bob", msg.Content)
	assert.Equal(t, domain.MessageTypeText, msg.MessageType)
	require.NotNil(t, msg.ExpiresAt)
	assert.WithinDuration(t, msg.Timestamp.AddDate(0, 0, 30), *msg.ExpiresAt, time.Second)

	notifications, err := env.notifications.ListFor(bob.ID, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationMessage, notifications[0].Type)
}

func TestSendNotePrefixesContent(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	msg, err := chat.SendNote(alice.ID, bob.ID, "binary trees summary")
	require.NoError(t, err)
	assert.Equal(t, "Note: binary trees summary", msg.Content)
	assert.Equal(t, domain.MessageTypeNote, msg.MessageType)
}

func TestSendChallengeType(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	msg, err := chat.SendChallenge(alice.ID, bob.ID, "30 day streak")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageTypeChallenge, msg.MessageType)
}

func TestSendTrimsConversationOverCap(t *testing.T) {
	env := newTestEnv(t)
	cfg := defaultChatConfig()
	cfg.MaxMessagesPerConversation = 150
	chat := env.chatService(t, cfg)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	seedMessages(t, env, alice.ID, bob.ID, 150, time.Now().Add(-time.Hour))

	// The 151st message tips the conversation over the cap; the oldest 100
	// are dropped, never the new one.
	msg, err := chat.Send(alice.ID, bob.ID, "the one that tips it", domain.MessageTypeText)
	require.NoError(t, err)

	count, err := env.messages.CountBetween(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(51), count)

	last, err := env.messages.LastBetween(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, last.ID)
}

func TestSendAtCapDoesNotTrim(t *testing.T) {
	env := newTestEnv(t)
	cfg := defaultChatConfig()
	cfg.MaxMessagesPerConversation = 150
	chat := env.chatService(t, cfg)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	seedMessages(t, env, alice.ID, bob.ID, 149, time.Now().Add(-time.Hour))

	_, err := chat.Send(alice.ID, bob.ID, "exactly at cap", domain.MessageTypeText)
	require.NoError(t, err)

	count, err := env.messages.CountBetween(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), count)
}

func TestHistoryMarksIncomingRead(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	seedMessages(t, env, bob.ID, alice.ID, 3, time.Now().Add(-time.Minute))

	msgs, total, err := chat.History(alice.ID, bob.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, msgs, 3)

	unread, err := env.messages.CountUnreadFrom(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestHistoryRequiresConnection(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, _, err := chat.History(alice.ID, bob.ID, 1)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestConversationsSortedByRecency(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	env.connectApproved(t, alice.ID, bob.ID)
	env.connectApproved(t, alice.ID, carol.ID)

	seedMessages(t, env, bob.ID, alice.ID, 1, time.Now().Add(-time.Hour))
	seedMessages(t, env, carol.ID, alice.ID, 2, time.Now().Add(-time.Minute))

	convs, err := chat.Conversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, carol.ID, convs[0].Buddy.ID)
	assert.Equal(t, int64(2), convs[0].Unread)
	assert.Equal(t, bob.ID, convs[1].Buddy.ID)
	assert.Equal(t, int64(1), convs[1].Unread)
}

func TestConversationsEmptyThreadHasNoLastMessage(t *testing.T) {
	env := newTestEnv(t)
	chat := env.chatService(t, defaultChatConfig())
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.connectApproved(t, alice.ID, bob.ID)

	convs, err := chat.Conversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Nil(t, convs[0].LastMessage)
	assert.Zero(t, convs[0].Unread)
}
