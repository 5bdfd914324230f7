package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"studybuddy/internal/auth"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
	"studybuddy/pkg/logger"
	"studybuddy/pkg/mailer"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidResetCode   = errors.New("invalid reset code")
	ErrResetCodeExpired   = errors.New("reset code expired")
	ErrNotAdmin           = errors.New("not an admin account")
)

const resetCodeTTL = 15 * time.Minute

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	users      *repository.UserRepository
	activities *repository.ActivityRepository
	tokens     *auth.Manager
	mail       *mailer.Mailer
}

func NewAuthService(users *repository.UserRepository, activities *repository.ActivityRepository, tokens *auth.Manager, mail *mailer.Mailer) *AuthService {
	return &AuthService{users: users, activities: activities, tokens: tokens, mail: mail}
}

func (s *AuthService) Register(username, email, password string) (*models.User, *TokenPair, error) {
	if taken, err := s.users.EmailExists(email); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, ErrEmailTaken
	}
	if taken, err := s.users.UsernameExists(username); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	joined := &models.Activity{
		UserID:  user.ID,
		Action:  "joined",
		Details: "Created an account",
		XP:      10,
	}
	if err := s.activities.Create(joined); err != nil {
		logger.Warn("record signup activity failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, pair, nil
}

func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(user.ID, now); err != nil {
		logger.Warn("update last login failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// AdminLogin is Login plus the admin flag check, so the console cannot be
// entered with a regular account.
func (s *AuthService) AdminLogin(email, password string) (*models.User, *TokenPair, error) {
	user, pair, err := s.Login(email, password)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsAdmin {
		return nil, nil, ErrNotAdmin
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issueTokens(user)
}

// ForgotPassword generates a 6-digit code, stores it with a 15 minute
// expiry and mails it. Unknown emails return nil so the endpoint cannot be
// used to probe which addresses are registered.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.users.GetByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetCodeTTL)
	if err := s.users.SetResetCode(user.ID, code, &expires); err != nil {
		return err
	}

	if err := s.mail.SendResetCode(user.Email, code); err != nil {
		logger.Error("send reset code failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

// VerifyResetCode checks a code without consuming it, so the frontend can
// validate before showing the new-password form.
func (s *AuthService) VerifyResetCode(email, code string) error {
	_, err := s.userForResetCode(email, code)
	return err
}

// ResetPassword consumes a valid code and sets the new password.
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	user, err := s.userForResetCode(email, code)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return err
	}
	logger.Info("password reset", zap.Uint("user_id", user.ID))
	return nil
}

func (s *AuthService) userForResetCode(email, code string) (*models.User, error) {
	user, err := s.users.GetByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidResetCode
	}
	if err != nil {
		return nil, err
	}
	if user.ResetCode == "" || user.ResetCode != code {
		return nil, ErrInvalidResetCode
	}
	if user.ResetCodeExpiresAt == nil || time.Now().After(*user.ResetCodeExpiresAt) {
		return nil, ErrResetCodeExpired
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccess(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefresh(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
