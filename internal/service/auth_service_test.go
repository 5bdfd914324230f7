package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy/config"
	"studybuddy/internal/auth"
)

func testTokenManager() *auth.Manager {
	return auth.NewManager(config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  config.Duration(time.Hour),
		RefreshExpiry: config.Duration(24 * time.Hour),
		Issuer:        "test",
	})
}

func newAuthService(env *testEnv) *AuthService {
	return NewAuthService(env.users, env.activities, testTokenManager(), testMailer())
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user, tokens, err := svc.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	logged, _, err := svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotNil(t, logged.LastLoginAt)

	activities, err := env.activities.RecentFor(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "joined", activities[0].Action)
}

func TestRegisterDuplicateEmailAndUsername(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	_, _, err := svc.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register("other", "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, _, err = svc.Register("alice", "new@example.com", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	_, _, err := svc.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.users.SetActive(1, false))
	_, _, err = svc.Login("alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)
	tokens := testTokenManager()

	user, pair, err := svc.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	claims, err := tokens.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.False(t, claims.IsAdmin)

	// An access token is not a refresh token.
	_, err = tokens.ParseRefresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	_, pair, err := svc.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = svc.Refresh("garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user, _, err := svc.Register("alice", "alice@example.com", "oldpassword1")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword("alice@example.com"))

	stored, err := env.users.GetByEmail("alice@example.com")
	require.NoError(t, err)
	require.Len(t, stored.ResetCode, 6)
	require.NotNil(t, stored.ResetCodeExpiresAt)

	require.NoError(t, svc.VerifyResetCode("alice@example.com", stored.ResetCode))
	assert.ErrorIs(t, svc.VerifyResetCode("alice@example.com", "000000x"), ErrInvalidResetCode)

	require.NoError(t, svc.ResetPassword("alice@example.com", stored.ResetCode, "newpassword1"))

	// Old password rejected, new one works, code consumed.
	_, _, err = svc.Login("alice@example.com", "oldpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	logged, _, err := svc.Login("alice@example.com", "newpassword1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	assert.ErrorIs(t, svc.VerifyResetCode("alice@example.com", stored.ResetCode), ErrInvalidResetCode)
}

func TestExpiredResetCode(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user, _, err := svc.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, env.users.SetResetCode(user.ID, "123456", &expired))

	assert.ErrorIs(t, svc.VerifyResetCode("alice@example.com", "123456"), ErrResetCodeExpired)
	assert.ErrorIs(t, svc.ResetPassword("alice@example.com", "123456", "newpassword1"), ErrResetCodeExpired)
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)
	assert.NoError(t, svc.ForgotPassword("ghost@example.com"))
}

func TestAdminLoginRequiresAdminFlag(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user, _, err := svc.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.AdminLogin("alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotAdmin)

	require.NoError(t, env.db.Model(user).Update("is_admin", true).Error)
	admin, _, err := svc.AdminLogin("alice@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
}
