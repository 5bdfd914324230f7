package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/domain"
	"studybuddy/internal/middleware"
	"studybuddy/internal/repository"
	"studybuddy/internal/service"
)

type AdminHandler struct {
	auth        *service.AuthService
	users       *repository.UserRepository
	connections *repository.ConnectionRepository
	messages    *repository.MessageRepository
}

func NewAdminHandler(
	auth *service.AuthService,
	users *repository.UserRepository,
	connections *repository.ConnectionRepository,
	messages *repository.MessageRepository,
) *AdminHandler {
	return &AdminHandler{
		auth:        auth,
		users:       users,
		connections: connections,
		messages:    messages,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, tokens, err := h.auth.AdminLogin(req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNotAdmin):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	case errors.Is(err, service.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

func (h *AdminHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	total, err := h.users.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	active, err := h.users.CountActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	newThisWeek, err := h.users.CountRegisteredSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	pending, err := h.connections.CountByStatus(domain.ConnectionPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	approved, err := h.connections.CountByStatus(domain.ConnectionApproved)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	messages, err := h.messages.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": gin.H{
		"total_users":       total,
		"active_users":      active,
		"new_this_week":     newThisWeek,
		"pending_requests":  pending,
		"total_connections": approved,
		"total_messages":    messages,
	}})
}

func (h *AdminHandler) Users(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	users, total, err := h.users.ListAll((page-1)*perPage, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
	})
}

// DeleteUser soft-deletes an account. Admins cannot delete themselves so
// the console can never lock itself out.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if id == middleware.GetUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	if _, err := h.users.GetByID(id); errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		return
	}

	if err := h.users.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

type setStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.users.GetByID(id); errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}

	if err := h.users.SetActive(id, *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *AdminHandler) Requests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	requests, total, err := h.connections.ListPending((page-1)*perPage, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     page,
	})
}

// ApproveRequest lets moderation force-approve a pending connection.
func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	h.resolveRequest(c, domain.ConnectionApproved)
}

// RejectRequest marks a pending connection rejected. The row is kept so
// the pair cannot immediately re-request.
func (h *AdminHandler) RejectRequest(c *gin.Context) {
	h.resolveRequest(c, domain.ConnectionRejected)
}

func (h *AdminHandler) resolveRequest(c *gin.Context, status string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	conn, err := h.connections.GetByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update request"})
		return
	}
	if conn.Status != domain.ConnectionPending {
		c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
		return
	}

	if err := h.connections.UpdateStatus(conn.ID, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request " + status})
}
