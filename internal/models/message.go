package models

import "encoding/json"

// SendMessageRequest is the body accepted by POST /send.
//
// Free-text fields are pointers: validation checks that the key is present
// and not null, and an empty string is forwarded as is.
type SendMessageRequest struct {
	MessagingProduct string       `json:"messaging_product" validate:"required,eq=whatsapp"`
	To               *string      `json:"to" validate:"required"`
	Type             string       `json:"type" validate:"required,eq=template"`
	Template         TemplateSpec `json:"template"`
	CaptchaToken     *string      `json:"captchaToken" validate:"required"`
}

type TemplateSpec struct {
	Name       *string         `json:"name" validate:"required"`
	Language   LanguageCode    `json:"language"`
	Components []ComponentSpec `json:"components" validate:"required,dive"`
}

type LanguageCode struct {
	Code *string `json:"code" validate:"required"`
}

type ComponentSpec struct {
	Type       *string         `json:"type" validate:"required"`
	Parameters []ParameterSpec `json:"parameters" validate:"required,dive"`
}

type ParameterSpec struct {
	Type *string `json:"type" validate:"required"`
	Text *string `json:"text" validate:"required"`
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// StringValue returns the value p points to, or "" when p is nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

type SendState string

const (
	SendStateDelivered SendState = "delivered"
	SendStateRejected  SendState = "rejected"
)

// SendOutcome is what the message service hands back to the handler: the
// terminal state plus everything needed to render the response.
type SendOutcome struct {
	State      SendState       `json:"state"`
	HTTPStatus int             `json:"http_status"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	// Kind is the provider result kind, empty when the provider was never called.
	Kind       string          `json:"kind,omitempty"`
}

func (o *SendOutcome) Delivered() bool {
	return o != nil && o.State == SendStateDelivered
}
