package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/domain"
	"studybuddy/internal/middleware"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
)

type ChallengeHandler struct {
	challenges *repository.ChallengeRepository
	profiles   *repository.ProfileRepository
	activities *repository.ActivityRepository
}

func NewChallengeHandler(
	challenges *repository.ChallengeRepository,
	profiles *repository.ProfileRepository,
	activities *repository.ActivityRepository,
) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges, profiles: profiles, activities: activities}
}

func (h *ChallengeHandler) List(c *gin.Context) {
	items, err := h.challenges.ListFor(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load challenges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": items})
}

type createChallengeRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Total       int    `json:"total" binding:"required,min=1"`
	XP          int    `json:"xp" binding:"min=0"`
}

func (h *ChallengeHandler) Create(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge := &models.Challenge{
		UserID:      middleware.GetUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Total:       req.Total,
		XP:          req.XP,
		Status:      domain.ChallengeActive,
	}
	if err := h.challenges.Create(challenge); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create challenge"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"challenge": challenge})
}

type challengeProgressRequest struct {
	Progress *int `json:"progress" binding:"required,min=0"`
}

// UpdateProgress advances an active challenge; completing it awards the
// challenge's XP as an activity.
func (h *ChallengeHandler) UpdateProgress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req challengeProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	challenge, err := h.challenges.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && challenge.UserID != userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update challenge"})
		return
	}
	if challenge.Status != domain.ChallengeActive {
		c.JSON(http.StatusConflict, gin.H{"error": "challenge is not active"})
		return
	}

	challenge.UpdateProgress(*req.Progress, time.Now())
	if err := h.challenges.Update(challenge); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update challenge"})
		return
	}

	if challenge.Status == domain.ChallengeCompleted {
		h.activities.Create(&models.Activity{
			UserID:  userID,
			Action:  "challenge_completed",
			Details: "Completed challenge: " + challenge.Title,
			XP:      challenge.XP,
		})
	}
	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

// catalogEntry is a suggested challenge, not yet started by the user.
type catalogEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Total       int    `json:"total"`
	XP          int    `json:"xp"`
	Topic       string `json:"topic"`
}

// challengeCatalog maps profile keywords to suggested challenges. Matched
// against lowercased interests and specialization as substrings.
var challengeCatalog = map[string][]catalogEntry{
	"python": {
		{Title: "Python streak", Description: "Solve one Python exercise a day for a week", Total: 7, XP: 70, Topic: "python"},
		{Title: "Build a CLI tool", Description: "Ship a small command-line tool in Python", Total: 1, XP: 50, Topic: "python"},
	},
	"javascript": {
		{Title: "30 days of JavaScript", Description: "Complete a JavaScript exercise daily for 30 days", Total: 30, XP: 150, Topic: "javascript"},
	},
	"web": {
		{Title: "Portfolio page", Description: "Design and publish a personal portfolio page", Total: 1, XP: 60, Topic: "web"},
	},
	"math": {
		{Title: "Proof practice", Description: "Write out ten proofs from your course material", Total: 10, XP: 80, Topic: "math"},
	},
	"data": {
		{Title: "Dataset deep dive", Description: "Explore and visualize a public dataset", Total: 1, XP: 60, Topic: "data"},
	},
	"design": {
		{Title: "Daily sketch", Description: "Produce one UI sketch per day for two weeks", Total: 14, XP: 90, Topic: "design"},
	},
}

// generalChallenges are suggested to everyone regardless of profile.
var generalChallenges = []catalogEntry{
	{Title: "Study streak", Description: "Study with a buddy five days in a row", Total: 5, XP: 50, Topic: "general"},
	{Title: "Note sharer", Description: "Share study notes with three different buddies", Total: 3, XP: 40, Topic: "general"},
}

// Personalized suggests challenges keyed off the caller's interests and
// specialization, falling back to the general set for empty profiles.
func (h *ChallengeHandler) Personalized(c *gin.Context) {
	keywords := ""
	if profile, err := h.profiles.GetByUserID(middleware.GetUserID(c)); err == nil {
		keywords = strings.ToLower(profile.Interests + " " + profile.Specialization)
	}

	suggestions := make([]catalogEntry, 0, len(generalChallenges)+4)
	for keyword, entries := range challengeCatalog {
		if strings.Contains(keywords, keyword) {
			suggestions = append(suggestions, entries...)
		}
	}
	suggestions = append(suggestions, generalChallenges...)

	c.JSON(http.StatusOK, gin.H{"challenges": suggestions})
}
