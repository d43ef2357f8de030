package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindcare-bot/internal/service"
)

// MoodHandler expone el seguimiento de animo.
type MoodHandler struct {
	logger *zap.Logger
	moods  *service.MoodService
}

func NewMoodHandler(logger *zap.Logger, moods *service.MoodService) *MoodHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MoodHandler{logger: logger, moods: moods}
}

// Record maneja POST /mood.
func (h *MoodHandler) Record(c *gin.Context) {
	var req struct {
		MoodLevel int    `json:"mood_level"`
		Notes     string `json:"notes"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid mood request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	entry, err := h.moods.Record(c.Request.Context(), service.MoodInput{
		UserID:    currentUserID(c),
		SessionID: req.SessionID,
		Level:     req.MoodLevel,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// List maneja GET /mood?session_id=.
func (h *MoodHandler) List(c *gin.Context) {
	entries, err := h.moods.Recent(c.Request.Context(), currentUserID(c), c.Query("session_id"))
	if err != nil {
		h.logger.Error("list mood entries failed", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Delete maneja DELETE /mood/:id.
func (h *MoodHandler) Delete(c *gin.Context) {
	if err := h.moods.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
