package routes

import (
	"whatsapp-relay/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupMessageRoutes registers the public relay endpoint. There is no auth:
// the reCAPTCHA check inside the handler is the only gate.
func SetupMessageRoutes(r gin.IRoutes, messageHandler *handlers.MessageHandler) {
	r.POST("/send", messageHandler.SendTemplateMessage)
}
