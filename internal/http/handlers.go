package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mindcare-bot/internal/repository"
	"mindcare-bot/internal/service"
)

// writeError traduce errores de servicio a codigos HTTP.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMessageInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
	case errors.Is(err, service.ErrMoodInvalidLevel):
		c.JSON(http.StatusBadRequest, gin.H{"error": "mood_level must be between 1 and 5"})
	case errors.Is(err, service.ErrMoodInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required for anonymous entries"})
	case errors.Is(err, service.ErrMoodForbidden):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, service.ErrMoodNotFound), errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrConversationForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "conversation belongs to another user"})
	case errors.Is(err, service.ErrConversationEnded):
		c.JSON(http.StatusConflict, gin.H{"error": "conversation has ended, start a new session"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Health maneja GET /healthz.
func Health(modelEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "model_enabled": modelEnabled})
	}
}
