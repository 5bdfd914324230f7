package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/internal/models"
)

func TestRetentionSweepDeletesExpiredOnStart(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	now := time.Now()
	old := now.AddDate(0, 0, -31)
	a, b := alice.ID, bob.ID
	require.NoError(t, env.db.Create(&models.Message{
		SenderID: &a, ReceiverID: &b, Content: "expired", Timestamp: old,
	}).Error)
	require.NoError(t, env.db.Create(&models.Message{
		SenderID: &a, ReceiverID: &b, Content: "kept", Timestamp: now,
	}).Error)

	svc := NewRetentionService(env.messages, 30)
	svc.Start()
	// Stop waits for the initial sweep to finish before returning.
	svc.Stop()

	var remaining []models.Message
	require.NoError(t, env.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "kept", remaining[0].Content)
}

func TestRetentionStopIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRetentionService(env.messages, 30)
	svc.Start()
	svc.Stop()
	assert.NotPanics(t, func() { svc.Stop() })
}
