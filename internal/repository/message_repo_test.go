package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"studybuddy/internal/models"
)

func createMessage(t *testing.T, db *gorm.DB, sender, receiver uint, content string, ts time.Time) *models.Message {
	t.Helper()
	msg := &models.Message{
		SenderID:    &sender,
		ReceiverID:  &receiver,
		Content:     content,
		Timestamp:   ts,
		MessageType: "text",
	}
	require.NoError(t, db.Create(msg).Error)
	return msg
}

func TestDeleteOlderThanUsesTimestampNotExpiresAt(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	now := time.Now()

	old := createMessage(t, db, a.ID, b.ID, "old", now.AddDate(0, 0, -40))
	fresh := createMessage(t, db, a.ID, b.ID, "fresh", now.AddDate(0, 0, -1))

	// Deliberately contradictory expires_at values: the sweep must ignore
	// them and go by timestamp alone.
	future := now.AddDate(0, 0, 30)
	past := now.AddDate(0, 0, -1)
	require.NoError(t, db.Model(old).Update("expires_at", &future).Error)
	require.NoError(t, db.Model(fresh).Update("expires_at", &past).Error)

	deleted, err := repo.DeleteOlderThan(now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []models.Message
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].Content)
}

func TestDeleteOlderThanEmptyTable(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)

	deleted, err := repo.DeleteOlderThan(time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestDeleteOldestBetweenRemovesExactlyN(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 10; i++ {
		sender, receiver := a.ID, b.ID
		if i%2 == 1 {
			sender, receiver = b.ID, a.ID
		}
		createMessage(t, db, sender, receiver, string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
	}

	deleted, err := repo.DeleteOldestBetween(a.ID, b.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	var remaining []models.Message
	require.NoError(t, db.Order("timestamp ASC").Find(&remaining).Error)
	require.Len(t, remaining, 7)
	assert.Equal(t, "d", remaining[0].Content)
}

func TestDeleteOldestBetweenFewerThanN(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")

	createMessage(t, db, a.ID, b.ID, "only", time.Now())
	deleted, err := repo.DeleteOldestBetween(a.ID, b.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestDeleteOldestBetweenLeavesOtherConversations(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	c := createUser(t, db, "carol")

	createMessage(t, db, a.ID, b.ID, "ab", time.Now())
	createMessage(t, db, a.ID, c.ID, "ac", time.Now())

	_, err := repo.DeleteOldestBetween(a.ID, b.ID, 10)
	require.NoError(t, err)

	count, err := repo.CountBetween(a.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCountBetweenIsUnordered(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")

	createMessage(t, db, a.ID, b.ID, "hi", time.Now())
	createMessage(t, db, b.ID, a.ID, "hey", time.Now())

	forward, err := repo.CountBetween(a.ID, b.ID)
	require.NoError(t, err)
	reverse, err := repo.CountBetween(b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), forward)
	assert.Equal(t, forward, reverse)
}

func TestBetweenPaginatesNewestFirstPages(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		createMessage(t, db, a.ID, b.ID, string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
	}

	page1, total, err := repo.Between(a.ID, b.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	// Page 1 holds the two newest, returned in chronological order.
	assert.Equal(t, "d", page1[0].Content)
	assert.Equal(t, "e", page1[1].Content)

	page3, _, err := repo.Between(a.ID, b.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "a", page3[0].Content)
}

func TestMarkReadAndUnreadCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")

	createMessage(t, db, a.ID, b.ID, "one", time.Now())
	createMessage(t, db, a.ID, b.ID, "two", time.Now())
	createMessage(t, db, b.ID, a.ID, "reply", time.Now())

	unread, err := repo.CountUnreadFrom(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	total, err := repo.CountUnreadFor(b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	require.NoError(t, repo.MarkRead(a.ID, b.ID))

	unread, err = repo.CountUnreadFrom(a.ID, b.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	// Bob's reply to Alice is untouched.
	aliceUnread, err := repo.CountUnreadFor(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), aliceUnread)
}

func TestLastBetween(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")

	_, err := repo.LastBetween(a.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	createMessage(t, db, a.ID, b.ID, "first", time.Now().Add(-time.Minute))
	createMessage(t, db, b.ID, a.ID, "latest", time.Now())

	last, err := repo.LastBetween(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "latest", last.Content)
}
