package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindcare-bot/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de sesiones y mensajes.
type ChatHandler struct {
	logger        *zap.Logger
	conversations *service.ConversationService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, conversations *service.ConversationService) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{logger: logger, conversations: conversations}
}

// CreateSession maneja POST /session.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	start, err := h.conversations.StartSession(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("create session failed", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, start)
}

// ProcessMessage maneja POST /process-message.
func (h *ChatHandler) ProcessMessage(c *gin.Context) {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid process message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	out, err := h.conversations.ProcessMessage(c.Request.Context(), service.ProcessInput{
		SessionID: req.SessionID,
		UserID:    currentUserID(c),
		Message:   req.Message,
	})
	if err != nil {
		if !errors.Is(err, service.ErrMessageInvalidInput) {
			h.logger.Error("process message failed", zap.String("session_id", req.SessionID), zap.Error(err))
		}
		writeError(c, err)
		return
	}
	if out.IsCrisis {
		h.logger.Warn("crisis response delivered", zap.String("session_id", out.SessionID))
	}
	c.JSON(http.StatusOK, out)
}

// Transcript maneja GET /chat/:session_id/messages.
func (h *ChatHandler) Transcript(c *gin.Context) {
	sessionID := c.Param("session_id")
	msgs, err := h.conversations.Transcript(c.Request.Context(), sessionID, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "messages": msgs})
}

// Clear maneja POST /chat/:session_id/clear.
func (h *ChatHandler) Clear(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := h.conversations.Clear(c.Request.Context(), sessionID, currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "session_id": sessionID})
}
