package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studybuddy/config"
	"studybuddy/internal/database"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
	"studybuddy/internal/ws"
	"studybuddy/pkg/mailer"
)

// testEnv wires the full service graph over an in-memory database.
type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	profiles      *repository.ProfileRepository
	connections   *repository.ConnectionRepository
	messages      *repository.MessageRepository
	notifications *repository.NotificationRepository
	activities    *repository.ActivityRepository
	hub           *ws.Hub

	notificationSvc *NotificationService
	buddySvc        *BuddyService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		db:            db,
		users:         repository.NewUserRepository(db),
		profiles:      repository.NewProfileRepository(db),
		connections:   repository.NewConnectionRepository(db),
		messages:      repository.NewMessageRepository(db),
		notifications: repository.NewNotificationRepository(db),
		activities:    repository.NewActivityRepository(db),
		hub:           ws.NewHub(),
	}
	env.notificationSvc = NewNotificationService(env.notifications, env.hub)
	env.buddySvc = NewBuddyService(env.users, env.profiles, env.connections, env.activities, env.notificationSvc)
	return env
}

func (e *testEnv) chatService(t *testing.T, cfg config.ChatConfig) *ChatService {
	t.Helper()
	if cfg.MessagesPerPage == 0 {
		cfg.MessagesPerPage = 50
	}
	return NewChatService(e.messages, e.users, e.buddySvc, e.notificationSvc, e.hub, cfg)
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createProfile(t *testing.T, userID uint, interests, specialization, schedule string) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Profile{
		UserID:         userID,
		Interests:      interests,
		Specialization: specialization,
		Schedule:       schedule,
		Level:          "Beginner",
	}).Error)
}

func (e *testEnv) connectApproved(t *testing.T, a, b uint) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.BuddyConnection{
		UserID:  a,
		BuddyID: b,
		Status:  "approved",
	}).Error)
}

func testMailer() *mailer.Mailer {
	return mailer.New(config.MailConfig{})
}
