package whatsapp

import "encoding/json"

const (
	MessagingProduct    = "whatsapp"
	MessageTypeTemplate = "template"
)

// Payload is the body of a Cloud API template send.
type Payload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         Template `json:"template"`
}

type Template struct {
	Name       string      `json:"name"`
	Language   Language    `json:"language"`
	Components []Component `json:"components"`
}

type Language struct {
	Code string `json:"code"`
}

type Component struct {
	Type       string      `json:"type"`
	Parameters []Parameter `json:"parameters"`
}

type Parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ResultKind tags the outcome of a single send attempt.
type ResultKind string

const (
	ResultSuccess           ResultKind = "success"
	ResultProviderError     ResultKind = "provider_error"
	ResultNoMessages        ResultKind = "no_messages"
	ResultMalformedResponse ResultKind = "malformed_response"
	ResultTransportFailure  ResultKind = "transport_failure"
)

const (
	UnknownErrorMessage = "Unknown error"
	NoMessagesMessage   = "Response returned 200 but no message was sent."
)

// Result is the classified provider response. Which fields are set depends
// on Kind:
//
//	success             StatusCode, Data
//	provider_error      StatusCode, Message, Details (the error object)
//	no_messages         StatusCode, Message, Details (the whole body)
//	malformed_response  StatusCode, Message and RawBody (the body text)
//	transport_failure   Message
type Result struct {
	Kind       ResultKind
	StatusCode int
	Message    string
	Details    json.RawMessage
	Data       json.RawMessage
	RawBody    string
}

func (r *Result) OK() bool {
	return r != nil && r.Kind == ResultSuccess
}
