package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-relay/internal/models"
	"whatsapp-relay/pkg/metrics"
	"whatsapp-relay/pkg/whatsapp"
)

type stubVerifier struct {
	pass   bool
	tokens []string
}

func (s *stubVerifier) Verify(_ context.Context, token string) bool {
	s.tokens = append(s.tokens, token)
	return s.pass
}

type stubSender struct {
	result   *whatsapp.Result
	payloads []*whatsapp.Payload
}

func (s *stubSender) Send(_ context.Context, payload *whatsapp.Payload) *whatsapp.Result {
	s.payloads = append(s.payloads, payload)
	return s.result
}

func sampleRequest() *models.SendMessageRequest {
	return &models.SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               models.String("5511999999999"),
		Type:             "template",
		Template: models.TemplateSpec{
			Name:     models.String("appointment"),
			Language: models.LanguageCode{Code: models.String("pt_BR")},
			Components: []models.ComponentSpec{
				{Type: models.String("header"), Parameters: []models.ParameterSpec{textParam("Clinic")}},
				{Type: models.String("body"), Parameters: []models.ParameterSpec{
					textParam("Ana"),
					textParam("Tuesday"),
					textParam("10:00"),
				}},
				{Type: models.String("footer"), Parameters: []models.ParameterSpec{}},
			},
		},
		CaptchaToken: models.String("captcha-token"),
	}
}

func textParam(text string) models.ParameterSpec {
	return models.ParameterSpec{Type: models.String("text"), Text: models.String(text)}
}

func TestMessageService_VerificationFailedSkipsProvider(t *testing.T) {
	verifier := &stubVerifier{pass: false}
	sender := &stubSender{}
	svc := NewMessageService(verifier, sender, nil, nil)

	outcome := svc.SendTemplateMessage(context.Background(), sampleRequest())

	assert.Equal(t, models.SendStateRejected, outcome.State)
	assert.Equal(t, http.StatusForbidden, outcome.HTTPStatus)
	assert.Equal(t, VerificationFailedMessage, outcome.Error)
	assert.Empty(t, outcome.Kind)
	assert.Equal(t, []string{"captcha-token"}, verifier.tokens)
	assert.Empty(t, sender.payloads)
}

func TestMessageService_EmptyTokenGoesToVerifier(t *testing.T) {
	verifier := &stubVerifier{pass: false}
	sender := &stubSender{}
	svc := NewMessageService(verifier, sender, nil, nil)

	req := sampleRequest()
	req.CaptchaToken = models.String("")
	outcome := svc.SendTemplateMessage(context.Background(), req)

	assert.Equal(t, http.StatusForbidden, outcome.HTTPStatus)
	assert.Equal(t, []string{""}, verifier.tokens)
	assert.Empty(t, sender.payloads)
}

func TestMessageService_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		result      *whatsapp.Result
		wantState   models.SendState
		wantStatus  int
		wantError   string
		wantDetails string
		wantData    string
	}{
		{
			name:       "success",
			result:     whatsapp.Classify(200, []byte(`{"messages":[{"id":"x"}]}`)),
			wantState:  models.SendStateDelivered,
			wantStatus: http.StatusOK,
			wantData:   `{"messages":[{"id":"x"}]}`,
		},
		{
			name:        "provider error keeps status",
			result:      whatsapp.Classify(401, []byte(`{"error":{"message":"Invalid token"}}`)),
			wantState:   models.SendStateRejected,
			wantStatus:  http.StatusUnauthorized,
			wantError:   "Invalid token",
			wantDetails: `{"message":"Invalid token"}`,
		},
		{
			name:        "error inside 200 becomes 500",
			result:      whatsapp.Classify(200, []byte(`{"error":{"message":"bad template"}}`)),
			wantState:   models.SendStateRejected,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "bad template",
			wantDetails: `{"message":"bad template"}`,
		},
		{
			name:        "no messages",
			result:      whatsapp.Classify(200, []byte(`{}`)),
			wantState:   models.SendStateRejected,
			wantStatus:  http.StatusInternalServerError,
			wantError:   whatsapp.NoMessagesMessage,
			wantDetails: `{}`,
		},
		{
			name:        "malformed with gateway status",
			result:      whatsapp.Classify(502, []byte(`Bad Gateway`)),
			wantState:   models.SendStateRejected,
			wantStatus:  http.StatusBadGateway,
			wantError:   "Bad Gateway",
			wantDetails: `{}`,
		},
		{
			name:        "malformed with 200",
			result:      whatsapp.Classify(200, []byte(`ok`)),
			wantState:   models.SendStateRejected,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "ok",
			wantDetails: `{}`,
		},
		{
			name:        "transport failure",
			result:      &whatsapp.Result{Kind: whatsapp.ResultTransportFailure, Message: "connection refused"},
			wantState:   models.SendStateRejected,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "connection refused",
			wantDetails: `{}`,
		},
		{
			name:        "nil result",
			result:      nil,
			wantState:   models.SendStateRejected,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "no response from provider",
			wantDetails: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewMetrics()
			sender := &stubSender{result: tt.result}
			svc := NewMessageService(&stubVerifier{pass: true}, sender, nil, m)

			outcome := svc.SendTemplateMessage(context.Background(), sampleRequest())

			require.Len(t, sender.payloads, 1)
			assert.Equal(t, tt.wantState, outcome.State)
			assert.Equal(t, tt.wantStatus, outcome.HTTPStatus)
			assert.Equal(t, tt.wantError, outcome.Error)
			if tt.wantDetails != "" {
				assert.JSONEq(t, tt.wantDetails, string(outcome.Details))
			}
			if tt.wantData != "" {
				assert.JSONEq(t, tt.wantData, string(outcome.Response))
				assert.True(t, outcome.Delivered())
			}
			assert.Equal(t, float64(1), testutil.ToFloat64(m.ProviderResults.WithLabelValues(outcome.Kind)))
		})
	}
}

func TestBuildPayload_PreservesOrder(t *testing.T) {
	req := sampleRequest()
	req.MessagingProduct = "WhatsApp"

	payload := BuildPayload(req)

	assert.Equal(t, whatsapp.MessagingProduct, payload.MessagingProduct)
	assert.Equal(t, whatsapp.MessageTypeTemplate, payload.Type)
	assert.Equal(t, "5511999999999", payload.To)
	assert.Equal(t, "appointment", payload.Template.Name)
	assert.Equal(t, "pt_BR", payload.Template.Language.Code)

	require.Len(t, payload.Template.Components, 3)
	assert.Equal(t, "header", payload.Template.Components[0].Type)
	assert.Equal(t, "body", payload.Template.Components[1].Type)
	assert.Equal(t, "footer", payload.Template.Components[2].Type)

	texts := make([]string, 0)
	for _, p := range payload.Template.Components[1].Parameters {
		texts = append(texts, p.Text)
	}
	assert.Equal(t, []string{"Ana", "Tuesday", "10:00"}, texts)
}

func TestBuildPayload_WireFormat(t *testing.T) {
	req := sampleRequest()
	req.Template.Components = nil

	body, err := json.Marshal(BuildPayload(req))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"messaging_product": "whatsapp",
		"to": "5511999999999",
		"type": "template",
		"template": {"name": "appointment", "language": {"code": "pt_BR"}, "components": []}
	}`, string(body))
	assert.NotContains(t, string(body), "captcha")
}

func TestBuildPayload_ForwardsEmptyStrings(t *testing.T) {
	req := sampleRequest()
	req.To = models.String("")
	req.Template.Components = []models.ComponentSpec{
		{Type: models.String("body"), Parameters: []models.ParameterSpec{textParam("")}},
	}

	payload := BuildPayload(req)

	assert.Equal(t, "", payload.To)
	require.Len(t, payload.Template.Components, 1)
	assert.Equal(t, []whatsapp.Parameter{{Type: "text", Text: ""}}, payload.Template.Components[0].Parameters)
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, 500, errorStatus(0))
	assert.Equal(t, 500, errorStatus(200))
	assert.Equal(t, 500, errorStatus(302))
	assert.Equal(t, 400, errorStatus(400))
	assert.Equal(t, 503, errorStatus(503))
	assert.Equal(t, 500, errorStatus(700))
}
