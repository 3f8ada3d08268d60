package handlers

import (
	"whatsapp-relay/internal/models"
	"whatsapp-relay/internal/services"
	"whatsapp-relay/internal/utils"
	"whatsapp-relay/internal/validators"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// SendTemplateMessage relays a template message after the challenge check.
// Malformed bodies are rejected before anything is sent upstream.
func (h *MessageHandler) SendTemplateMessage(c *gin.Context) {
	var request models.SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ValidationErrorResponse(c, validators.DecodeError(err))
		return
	}

	if errs := validators.ValidateSendMessageRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	outcome := h.messageService.SendTemplateMessage(c.Request.Context(), &request)
	utils.OutcomeResponse(c, outcome)
}
