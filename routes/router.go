package routes

import (
	"net/http"

	"whatsapp-relay/internal/handlers"
	"whatsapp-relay/internal/middleware"
	"whatsapp-relay/internal/utils"
	"whatsapp-relay/pkg/logger"
	"whatsapp-relay/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Logger             *logger.Logger
	Metrics            *metrics.Metrics
	MessageHandler     *handlers.MessageHandler
	HealthHandler      *handlers.HealthHandler
	CORSAllowedOrigins []string
	TrustedProxies     []string
}

func NewRouter(deps *Dependencies) (*gin.Engine, error) {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(deps.Metrics.Middleware())
	router.Use(middleware.CORSMiddleware(deps.CORSAllowedOrigins))

	SetupMessageRoutes(router, deps.MessageHandler)

	router.GET("/health", deps.HealthHandler.Health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	router.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, utils.ErrRouteNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusMethodNotAllowed, utils.ErrMethodNotAllow)
	})

	return router, nil
}
