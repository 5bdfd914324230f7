package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/domain"
	"studybuddy/internal/middleware"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
)

type ProfileHandler struct {
	profiles *repository.ProfileRepository
}

func NewProfileHandler(profiles *repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns the caller's profile, or an empty shape before the first
// save so the frontend can always render the form.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	profile, err := h.profiles.GetByUserID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"profile": models.Profile{
			UserID: userID,
			Level:  domain.DefaultLevel,
		}})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type profileRequest struct {
	Bio            string `json:"bio" binding:"max=2000"`
	Interests      string `json:"interests" binding:"max=200"`
	Specialization string `json:"specialization" binding:"max=100"`
	Level          string `json:"level" binding:"max=50"`
	Schedule       string `json:"schedule" binding:"max=100"`
	PictureURL     string `json:"profile_picture" binding:"max=255"`
}

// Save handles both the first create and later updates.
func (h *ProfileHandler) Save(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Level == "" {
		req.Level = domain.DefaultLevel
	}

	profile := &models.Profile{
		UserID:         middleware.GetUserID(c),
		Bio:            req.Bio,
		Interests:      req.Interests,
		Specialization: req.Specialization,
		Level:          req.Level,
		Schedule:       req.Schedule,
		PictureURL:     req.PictureURL,
	}
	if err := h.profiles.Upsert(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
