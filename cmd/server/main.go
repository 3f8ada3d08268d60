package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whatsapp-relay/internal/config"
	"whatsapp-relay/internal/handlers"
	"whatsapp-relay/internal/services"
	"whatsapp-relay/pkg/logger"
	"whatsapp-relay/pkg/metrics"
	"whatsapp-relay/pkg/whatsapp"
	"whatsapp-relay/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the real environment still applies
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.App.LogLevel),
		Format:  cfg.App.LogFormat,
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if cfg.App.IsProduction() || !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	appMetrics := metrics.NewMetrics()

	whatsappClient, err := whatsapp.NewClient(
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
		whatsapp.WithBaseURL(cfg.WhatsApp.BaseURL),
		whatsapp.WithAPIVersion(cfg.WhatsApp.APIVersion),
		whatsapp.WithHTTPClient(&http.Client{Timeout: cfg.WhatsApp.HTTPTimeout}),
	)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create WhatsApp client")
	}

	recaptchaService := services.NewRecaptchaService(cfg.Recaptcha, nil, appLogger, appMetrics)
	messageService := services.NewMessageService(recaptchaService, whatsappClient, appLogger, appMetrics)

	router, err := routes.NewRouter(&routes.Dependencies{
		Logger:             appLogger,
		Metrics:            appMetrics,
		MessageHandler:     handlers.NewMessageHandler(messageService),
		HealthHandler:      handlers.NewHealthHandler(cfg.App.Version),
		CORSAllowedOrigins: cfg.Security.CORSAllowedOrigins,
		TrustedProxies:     cfg.Security.TrustedProxies,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to build router")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(map[string]interface{}{
			"addr":        server.Addr,
			"environment": cfg.App.Environment,
			"endpoint":    whatsappClient.Endpoint(),
		}).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}
}
