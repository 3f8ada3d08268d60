package config

import "time"

type RecaptchaConfig struct {
	SecretKey   string        `yaml:"secret_key"`
	VerifyURL   string        `yaml:"verify_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

func loadRecaptchaConfig() *RecaptchaConfig {
	return &RecaptchaConfig{
		SecretKey:   getEnv("RECAPTCHA_SECRET_KEY", ""),
		VerifyURL:   getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
		HTTPTimeout: getEnvAsDuration("RECAPTCHA_HTTP_TIMEOUT", 0),
	}
}
