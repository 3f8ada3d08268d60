package utils

import (
	"encoding/json"
	"net/http"

	"whatsapp-relay/internal/models"

	"github.com/gin-gonic/gin"
)

// SentResponse is the body returned once the provider accepted the message.
type SentResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

// ErrorDetail is the body of a failed send, nested under "detail".
type ErrorDetail struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

type DetailResponse struct {
	Detail interface{} `json:"detail"`
}

func SentMessageResponse(c *gin.Context, providerResponse json.RawMessage) {
	c.JSON(http.StatusOK, SentResponse{
		Status:   StatusSent,
		Response: providerResponse,
	})
}

// ErrorResponse writes {"detail": detail}. detail is either a plain message
// or a structured object.
func ErrorResponse(c *gin.Context, statusCode int, detail interface{}) {
	c.AbortWithStatusJSON(statusCode, DetailResponse{Detail: detail})
}

func ValidationErrorResponse(c *gin.Context, errors interface{}) {
	ErrorResponse(c, http.StatusUnprocessableEntity, errors)
}

func InternalServerErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, ErrInternalServer)
}

// OutcomeResponse renders the terminal state of a send.
func OutcomeResponse(c *gin.Context, outcome *models.SendOutcome) {
	if outcome == nil {
		InternalServerErrorResponse(c)
		return
	}

	if outcome.Delivered() {
		SentMessageResponse(c, outcome.Response)
		return
	}

	// Verification failures carry only a message
	if outcome.Kind == "" {
		ErrorResponse(c, outcome.HTTPStatus, outcome.Error)
		return
	}

	details := outcome.Details
	if len(details) == 0 {
		details = json.RawMessage(`{}`)
	}
	status := outcome.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	ErrorResponse(c, status, ErrorDetail{Error: outcome.Error, Details: details})
}
