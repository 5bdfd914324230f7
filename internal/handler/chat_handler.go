package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/domain"
	"studybuddy/internal/middleware"
	"studybuddy/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Messages returns one page of the conversation with :buddy_id and marks
// the incoming side read.
func (h *ChatHandler) Messages(c *gin.Context) {
	buddyID, ok := pathID(c, "buddy_id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	msgs, total, err := h.chat.History(middleware.GetUserID(c), buddyID, page)
	if !handleChatError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": msgs,
		"total":    total,
		"page":     page,
	})
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	h.send(c, domain.MessageTypeText)
}

// AttachNote shares study notes as a note-typed message.
func (h *ChatHandler) AttachNote(c *gin.Context) {
	h.send(c, domain.MessageTypeNote)
}

// SendChallenge shares a study challenge as a challenge-typed message.
func (h *ChatHandler) SendChallenge(c *gin.Context) {
	h.send(c, domain.MessageTypeChallenge)
}

func (h *ChatHandler) send(c *gin.Context, messageType string) {
	buddyID, ok := pathID(c, "buddy_id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	var (
		msg interface{}
		err error
	)
	switch messageType {
	case domain.MessageTypeNote:
		msg, err = h.chat.SendNote(userID, buddyID, req.Content)
	case domain.MessageTypeChallenge:
		msg, err = h.chat.SendChallenge(userID, buddyID, req.Content)
	default:
		msg, err = h.chat.Send(userID, buddyID, req.Content, domain.MessageTypeText)
	}
	if !handleChatError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *ChatHandler) Conversations(c *gin.Context) {
	convs, err := h.chat.Conversations(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func handleChatError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrMessageTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotConnected):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chat operation failed"})
	}
	return false
}
