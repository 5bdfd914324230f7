package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/middleware"
	"studybuddy/internal/service"
)

const defaultRecommendedLimit = 20

type BuddyHandler struct {
	buddies *service.BuddyService
}

func NewBuddyHandler(buddies *service.BuddyService) *BuddyHandler {
	return &BuddyHandler{buddies: buddies}
}

// Index serves the combined buddy page: recommendations, incoming requests
// and current connections in one response.
func (h *BuddyHandler) Index(c *gin.Context) {
	userID := middleware.GetUserID(c)

	recommended, err := h.buddies.Recommended(userID, defaultRecommendedLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load buddies"})
		return
	}
	requests, err := h.buddies.Requests(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load buddies"})
		return
	}
	connected, err := h.buddies.Connected(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load buddies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommended": recommended,
		"requests":    requests,
		"connected":   connected,
	})
}

func (h *BuddyHandler) Recommended(c *gin.Context) {
	limit := defaultRecommendedLimit
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "")); err == nil && v > 0 {
		limit = v
	}

	entries, err := h.buddies.Recommended(middleware.GetUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load recommendations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buddies": entries})
}

func (h *BuddyHandler) All(c *gin.Context) {
	entries, err := h.buddies.All(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load buddies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buddies": entries})
}

type connectRequest struct {
	BuddyID uint `json:"buddy_id" binding:"required"`
}

func (h *BuddyHandler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.buddies.Connect(middleware.GetUserID(c), req.BuddyID)
	switch {
	case errors.Is(err, service.ErrSelfConnection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrAlreadyConnected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"connection": conn})
}

func (h *BuddyHandler) Requests(c *gin.Context) {
	requests, err := h.buddies.Requests(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *BuddyHandler) Accept(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.buddies.Accept(requestID, middleware.GetUserID(c))
	if !handleRequestError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request accepted"})
}

func (h *BuddyHandler) Decline(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.buddies.Decline(requestID, middleware.GetUserID(c))
	if !handleRequestError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request declined"})
}

func (h *BuddyHandler) Connected(c *gin.Context) {
	entries, err := h.buddies.Connected(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load connections"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buddies": entries})
}

// handleRequestError writes the error response for accept/decline and
// reports whether the caller may proceed.
func handleRequestError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotRecipient):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
	}
	return false
}

// pathID parses a :param as an unsigned id, writing the 400 itself on
// failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
