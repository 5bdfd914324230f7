package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/internal/domain"
	"studybuddy/internal/models"
)

func TestGetBetweenFindsBothDirections(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")

	conn := &models.BuddyConnection{UserID: a.ID, BuddyID: b.ID, Status: domain.ConnectionPending}
	require.NoError(t, repo.Create(conn))

	forward, err := repo.GetBetween(a.ID, b.ID)
	require.NoError(t, err)
	reverse, err := repo.GetBetween(b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, forward.ID, reverse.ID)
}

func TestGetBetweenNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")

	_, err := repo.GetBetween(a.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingForReturnsOnlyIncomingPending(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	c := createUser(t, db, "carol")

	// Incoming pending for bob.
	require.NoError(t, repo.Create(&models.BuddyConnection{UserID: a.ID, BuddyID: b.ID, Status: domain.ConnectionPending}))
	// Outgoing pending from bob: not an incoming request.
	require.NoError(t, repo.Create(&models.BuddyConnection{UserID: b.ID, BuddyID: c.ID, Status: domain.ConnectionPending}))
	// Incoming but already approved.
	require.NoError(t, repo.Create(&models.BuddyConnection{UserID: c.ID, BuddyID: b.ID, Status: domain.ConnectionApproved}))

	pending, err := repo.PendingFor(b.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].UserID)
	assert.Equal(t, "alice", pending[0].Initiator.Username)
}

func TestApprovedForCoversBothDirections(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	c := createUser(t, db, "carol")

	require.NoError(t, repo.Create(&models.BuddyConnection{UserID: a.ID, BuddyID: b.ID, Status: domain.ConnectionApproved}))
	require.NoError(t, repo.Create(&models.BuddyConnection{UserID: c.ID, BuddyID: a.ID, Status: domain.ConnectionApproved}))
	require.NoError(t, repo.Create(&models.BuddyConnection{UserID: b.ID, BuddyID: c.ID, Status: domain.ConnectionPending}))

	conns, err := repo.ApprovedFor(a.ID)
	require.NoError(t, err)
	assert.Len(t, conns, 2)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")

	conn := &models.BuddyConnection{UserID: a.ID, BuddyID: b.ID, Status: domain.ConnectionPending}
	require.NoError(t, repo.Create(conn))
	require.NoError(t, repo.UpdateStatus(conn.ID, domain.ConnectionApproved))

	got, err := repo.GetByID(conn.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionApproved, got.Status)
}

func TestCountByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db)
	a := createUser(t, db, "alice")
	b := createUser(t, db, "bob")
	c := createUser(t, db, "carol")

	require.NoError(t, repo.Create(&models.BuddyConnection{UserID: a.ID, BuddyID: b.ID, Status: domain.ConnectionPending}))
	require.NoError(t, repo.Create(&models.BuddyConnection{UserID: a.ID, BuddyID: c.ID, Status: domain.ConnectionApproved}))

	pending, err := repo.CountByStatus(domain.ConnectionPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}
