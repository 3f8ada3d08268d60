package handlers

import (
	"net/http"

	"whatsapp-relay/internal/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  utils.StatusHealthy,
		"version": h.version,
	})
}
