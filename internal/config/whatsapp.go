package config

import "time"

type WhatsAppConfig struct {
	AccessToken   string        `yaml:"access_token"`
	PhoneNumberID string        `yaml:"phone_number_id"`
	BaseURL       string        `yaml:"base_url"`
	APIVersion    string        `yaml:"api_version"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
}

func loadWhatsAppConfig() *WhatsAppConfig {
	return &WhatsAppConfig{
		AccessToken:   getEnv("WA_TOKEN", ""),
		PhoneNumberID: getEnv("WA_PHONE_ID", ""),
		BaseURL:       getEnv("WA_API_BASE_URL", "https://graph.facebook.com"),
		APIVersion:    getEnv("WA_API_VERSION", "v22.0"),
		HTTPTimeout:   getEnvAsDuration("WA_HTTP_TIMEOUT", 0),
	}
}
