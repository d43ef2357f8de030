package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindcare-bot/internal/service"
)

type ResourceHandler struct {
	logger    *zap.Logger
	resources *service.ResourceService
}

func NewResourceHandler(logger *zap.Logger, resources *service.ResourceService) *ResourceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceHandler{logger: logger, resources: resources}
}

// List maneja GET /resources.
func (h *ResourceHandler) List(c *gin.Context) {
	dir, err := h.resources.Directory(c.Request.Context())
	if err != nil {
		h.logger.Error("list resources failed", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dir)
}
