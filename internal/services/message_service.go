package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"whatsapp-relay/internal/models"
	"whatsapp-relay/pkg/logger"
	"whatsapp-relay/pkg/metrics"
	"whatsapp-relay/pkg/whatsapp"
)

// VerificationFailedMessage is returned with 403 when the challenge fails.
const VerificationFailedMessage = "Failed reCAPTCHA verification."

// MessageSender delivers an assembled payload to the provider.
type MessageSender interface {
	Send(ctx context.Context, payload *whatsapp.Payload) *whatsapp.Result
}

type MessageService interface {
	// SendTemplateMessage verifies the challenge token, forwards the template
	// and reports the terminal outcome. The request must already be validated.
	SendTemplateMessage(ctx context.Context, request *models.SendMessageRequest) *models.SendOutcome
}

type messageService struct {
	verifier ChallengeVerifier
	sender   MessageSender
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewMessageService(verifier ChallengeVerifier, sender MessageSender, log *logger.Logger, m *metrics.Metrics) MessageService {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &messageService{
		verifier: verifier,
		sender:   sender,
		logger:   log.WithField("component", "message_service"),
		metrics:  m,
	}
}

func (s *messageService) SendTemplateMessage(ctx context.Context, request *models.SendMessageRequest) *models.SendOutcome {
	log := s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"recipient": models.StringValue(request.To),
		"template":  models.StringValue(request.Template.Name),
	})

	if !s.verifier.Verify(ctx, models.StringValue(request.CaptchaToken)) {
		log.LogSecurityEvent("recaptcha_failed", "medium", map[string]interface{}{
			"recipient": models.StringValue(request.To),
		})
		return &models.SendOutcome{
			State:      models.SendStateRejected,
			HTTPStatus: http.StatusForbidden,
			Error:      VerificationFailedMessage,
		}
	}

	start := time.Now()
	result := s.sender.Send(ctx, BuildPayload(request))
	if result == nil {
		result = &whatsapp.Result{Kind: whatsapp.ResultTransportFailure, Message: "no response from provider"}
	}
	s.metrics.ObserveProviderResult(string(result.Kind), time.Since(start))

	outcome := outcomeFromResult(result)
	log.LogProviderEvent("whatsapp", string(result.Kind), result.StatusCode, map[string]interface{}{
		"http_status": outcome.HTTPStatus,
		"message":     result.Message,
	})

	return outcome
}

// BuildPayload copies the request into the provider wire format. Component
// and parameter order is kept as received; the challenge token is dropped.
func BuildPayload(request *models.SendMessageRequest) *whatsapp.Payload {
	components := make([]whatsapp.Component, 0, len(request.Template.Components))
	for _, c := range request.Template.Components {
		parameters := make([]whatsapp.Parameter, 0, len(c.Parameters))
		for _, p := range c.Parameters {
			parameters = append(parameters, whatsapp.Parameter{Type: models.StringValue(p.Type), Text: models.StringValue(p.Text)})
		}
		components = append(components, whatsapp.Component{Type: models.StringValue(c.Type), Parameters: parameters})
	}

	return &whatsapp.Payload{
		MessagingProduct: whatsapp.MessagingProduct,
		To:               models.StringValue(request.To),
		Type:             whatsapp.MessageTypeTemplate,
		Template: whatsapp.Template{
			Name:       models.StringValue(request.Template.Name),
			Language:   whatsapp.Language{Code: models.StringValue(request.Template.Language.Code)},
			Components: components,
		},
	}
}

func outcomeFromResult(result *whatsapp.Result) *models.SendOutcome {
	if result.OK() {
		return &models.SendOutcome{
			State:      models.SendStateDelivered,
			HTTPStatus: http.StatusOK,
			Response:   result.Data,
			Kind:       string(result.Kind),
		}
	}

	details := result.Details
	if len(details) == 0 {
		details = json.RawMessage(`{}`)
	}

	return &models.SendOutcome{
		State:      models.SendStateRejected,
		HTTPStatus: errorStatus(result.StatusCode),
		Error:      result.Message,
		Details:    details,
		Kind:       string(result.Kind),
	}
}

// errorStatus keeps a provider error status and falls back to 500 for
// anything that is not one, including a 200 that carried an error.
func errorStatus(code int) int {
	if code >= http.StatusBadRequest && code <= 599 {
		return code
	}
	return http.StatusInternalServerError
}
