package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/middleware"
	"studybuddy/internal/repository"
)

const defaultActivityLimit = 20

type ActivityHandler struct {
	activities *repository.ActivityRepository
}

func NewActivityHandler(activities *repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

func (h *ActivityHandler) List(c *gin.Context) {
	limit := defaultActivityLimit
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && v > 0 {
		limit = v
	}

	items, err := h.activities.RecentFor(middleware.GetUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load activities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": items})
}
