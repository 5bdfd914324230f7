package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/domain"
	"studybuddy/internal/middleware"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
	"studybuddy/internal/service"
)

// xpPerLevel sets how much XP advances the student one level.
const xpPerLevel = 100

type OverviewHandler struct {
	activities *repository.ActivityRepository
	challenges *repository.ChallengeRepository
	groups     *repository.GroupRepository
	buddies    *service.BuddyService
}

func NewOverviewHandler(
	activities *repository.ActivityRepository,
	challenges *repository.ChallengeRepository,
	groups *repository.GroupRepository,
	buddies *service.BuddyService,
) *OverviewHandler {
	return &OverviewHandler{
		activities: activities,
		challenges: challenges,
		groups:     groups,
		buddies:    buddies,
	}
}

// Get assembles the dashboard: recent activity, active challenges, the
// user's groups, top buddy suggestions and progress stats.
func (h *OverviewHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	activities, err := h.activities.RecentFor(userID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load overview"})
		return
	}
	challenges, err := h.challenges.ListForByStatus(userID, domain.ChallengeActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load overview"})
		return
	}
	groups, err := h.groups.GroupsFor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load overview"})
		return
	}
	recommended, err := h.buddies.Recommended(userID, 3)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load overview"})
		return
	}
	xp, err := h.activities.TotalXP(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load overview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities":  activities,
		"challenges":  challenges,
		"groups":      groups,
		"recommended": recommended,
		"stats": gin.H{
			"xp":     xp,
			"level":  xp/xpPerLevel + 1,
			"streak": streakDays(activities, time.Now()),
		},
	})
}

// streakDays counts consecutive days ending today (or yesterday) with at
// least one recorded activity. Activities must be newest first.
func streakDays(activities []models.Activity, now time.Time) int {
	days := make(map[string]bool, len(activities))
	for _, a := range activities {
		days[a.CreatedAt.Format("2006-01-02")] = true
	}

	day := now
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
