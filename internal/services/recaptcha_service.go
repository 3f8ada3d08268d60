package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"whatsapp-relay/internal/config"
	"whatsapp-relay/pkg/logger"
	"whatsapp-relay/pkg/metrics"
)

// RecaptchaMinScore is the lowest reCAPTCHA v3 score accepted as human.
const RecaptchaMinScore = 0.5

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChallengeVerifier decides whether a client challenge token is acceptable.
// Implementations fail closed: anything ambiguous is a rejection.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token string) bool
}

type recaptchaService struct {
	secret     string
	verifyURL  string
	httpClient HTTPClient
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

type recaptchaResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

func NewRecaptchaService(cfg *config.RecaptchaConfig, httpClient HTTPClient, log *logger.Logger, m *metrics.Metrics) ChallengeVerifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &recaptchaService{
		secret:     cfg.SecretKey,
		verifyURL:  cfg.VerifyURL,
		httpClient: httpClient,
		logger:     log.WithField("component", "recaptcha"),
		metrics:    m,
	}
}

func (s *recaptchaService) Verify(ctx context.Context, token string) bool {
	passed := s.verify(ctx, token)
	s.metrics.ObserveVerification(passed)
	return passed
}

func (s *recaptchaService) verify(ctx context.Context, token string) bool {
	log := s.logger.WithContext(ctx)

	form := url.Values{}
	form.Set("secret", s.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.WithError(err).Warn("Failed to build reCAPTCHA request")
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("reCAPTCHA verification request failed")
		return false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		log.WithError(err).Warn("Failed to read reCAPTCHA response")
		return false
	}

	var result recaptchaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		log.WithError(err).WithField("status_code", resp.StatusCode).Warn("reCAPTCHA response is not valid JSON")
		return false
	}

	passed := result.Success && result.Score >= RecaptchaMinScore
	if !passed {
		log.WithFields(map[string]interface{}{
			"success":     result.Success,
			"score":       result.Score,
			"action":      result.Action,
			"hostname":    result.Hostname,
			"error_codes": result.ErrorCodes,
		}).Info("reCAPTCHA verification rejected")
	}

	return passed
}
