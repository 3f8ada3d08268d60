package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL    = "https://graph.facebook.com"
	DefaultAPIVersion = "v22.0"

	defaultMaxBodyBytes = 1 << 20
)

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Client)

// WithHTTPClient overrides the client used to reach the Graph API.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at another host. Useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version = strings.Trim(strings.TrimSpace(version), "/"); version != "" {
			c.apiVersion = version
		}
	}
}

// WithMaxBodyBytes caps how much of a provider response is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// Client sends template messages through the WhatsApp Cloud API.
type Client struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	apiVersion    string
	httpClient    HTTPClient
	maxBodyBytes  int64
}

func NewClient(accessToken, phoneNumberID string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.New("whatsapp client: access token is required")
	}
	if strings.TrimSpace(phoneNumberID) == "" {
		return nil, errors.New("whatsapp client: phone number id is required")
	}

	client := &Client{
		accessToken:   accessToken,
		phoneNumberID: strings.TrimSpace(phoneNumberID),
		baseURL:       DefaultBaseURL,
		apiVersion:    DefaultAPIVersion,
		httpClient:    http.DefaultClient,
		maxBodyBytes:  defaultMaxBodyBytes,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Endpoint returns the messages URL for the configured phone number.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, url.PathEscape(c.phoneNumberID))
}

// Send posts the payload once and classifies whatever comes back. It never
// returns a Go error: failures are reported through the Result kind.
func (c *Client) Send(ctx context.Context, payload *Payload) *Result {
	if payload == nil {
		return &Result{Kind: ResultTransportFailure, Message: "whatsapp client: payload is required"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &Result{Kind: ResultTransportFailure, Message: fmt.Sprintf("whatsapp client: encode payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return &Result{Kind: ResultTransportFailure, Message: fmt.Sprintf("whatsapp client: new request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Result{Kind: ResultTransportFailure, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return &Result{Kind: ResultTransportFailure, Message: fmt.Sprintf("whatsapp client: read response: %v", err)}
	}
	if int64(len(raw)) > c.maxBodyBytes {
		return &Result{
			Kind:       ResultMalformedResponse,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("whatsapp client: response body exceeds %d bytes", c.maxBodyBytes),
		}
	}

	return Classify(resp.StatusCode, raw)
}

type errorEnvelope struct {
	Message *string `json:"message"`
}

// Classify maps a raw Graph API response onto a Result. The status code does
// not decide success: an error object wins even inside a 2xx response, and a
// body without messages is never treated as delivered.
func Classify(statusCode int, body []byte) *Result {
	if !json.Valid(body) {
		return &Result{
			Kind:       ResultMalformedResponse,
			StatusCode: statusCode,
			Message:    string(body),
			RawBody:    string(body),
		}
	}

	// Valid JSON that is not an object has neither field.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		fields = nil
	}

	if errRaw, ok := fields["error"]; ok {
		message := UnknownErrorMessage
		var envelope errorEnvelope
		if err := json.Unmarshal(errRaw, &envelope); err == nil && envelope.Message != nil {
			message = *envelope.Message
		}
		return &Result{
			Kind:       ResultProviderError,
			StatusCode: statusCode,
			Message:    message,
			Details:    errRaw,
		}
	}

	if _, ok := fields["messages"]; !ok {
		return &Result{
			Kind:       ResultNoMessages,
			StatusCode: statusCode,
			Message:    NoMessagesMessage,
			Details:    json.RawMessage(bytes.TrimSpace(body)),
		}
	}

	return &Result{
		Kind:       ResultSuccess,
		StatusCode: statusCode,
		Data:       json.RawMessage(bytes.TrimSpace(body)),
	}
}
