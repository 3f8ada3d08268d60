package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingConfig is returned by Validate when a required variable is unset.
var ErrMissingConfig = errors.New("missing environment variables")

type Config struct {
	App       *AppConfig       `yaml:"app"`
	WhatsApp  *WhatsAppConfig  `yaml:"whatsapp"`
	Recaptcha *RecaptchaConfig `yaml:"recaptcha"`
	Security  *SecurityConfig  `yaml:"security"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	Debug       bool   `yaml:"debug"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

type SecurityConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	TrustedProxies     []string `yaml:"trusted_proxies"`
}

// DefaultCORSOrigins are the local dev servers the web client runs on.
var DefaultCORSOrigins = []string{
	"http://localhost:8080",
	"http://127.0.0.1:8080",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// Load reads the configuration from the environment. It does not validate;
// call Validate before using the result.
func Load() (*Config, error) {
	config := &Config{
		App:       loadAppConfig(),
		WhatsApp:  loadWhatsAppConfig(),
		Recaptcha: loadRecaptchaConfig(),
		Security:  loadSecurityConfig(),
	}

	return config, nil
}

// Validate reports every required variable that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.WhatsApp == nil || c.WhatsApp.AccessToken == "" {
		missing = append(missing, "WA_TOKEN")
	}
	if c.WhatsApp == nil || c.WhatsApp.PhoneNumberID == "" {
		missing = append(missing, "WA_PHONE_ID")
	}
	if c.Recaptcha == nil || c.Recaptcha.SecretKey == "" {
		missing = append(missing, "RECAPTCHA_SECRET_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "whatsapp-relay"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnvAsInt("APP_PORT", 8000),
		Host:        getEnv("APP_HOST", ""),
		Debug:       getEnvAsBool("APP_DEBUG", false),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", DefaultCORSOrigins),
		TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (a *AppConfig) IsProduction() bool {
	return a != nil && a.Environment == "production"
}
