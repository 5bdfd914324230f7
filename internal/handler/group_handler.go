package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/middleware"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
)

type GroupHandler struct {
	groups *repository.GroupRepository
}

func NewGroupHandler(groups *repository.GroupRepository) *GroupHandler {
	return &GroupHandler{groups: groups}
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) Join(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if _, err := h.groups.GetByID(groupID); errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join group"})
		return
	}

	member, err := h.groups.IsMember(groupID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join group"})
		return
	}
	if member {
		c.JSON(http.StatusConflict, gin.H{"error": "already a member"})
		return
	}

	m := &models.StudyGroupMember{GroupID: groupID, UserID: userID, JoinedAt: time.Now()}
	if err := h.groups.AddMember(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join group"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "joined group"})
}

func (h *GroupHandler) Leave(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.groups.RemoveMember(groupID, middleware.GetUserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not a member"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not leave group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left group"})
}
