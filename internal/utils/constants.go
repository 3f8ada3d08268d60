package utils

// Application Constants
const (
	AppName    = "whatsapp-relay"
	AppVersion = "1.0.0"

	StatusSent    = "sent"
	StatusHealthy = "healthy"

	RequestIDHeader = "X-Request-ID"
)

// Error Messages
const (
	ErrInternalServer = "Internal server error"
	ErrRouteNotFound  = "Not Found"
	ErrMethodNotAllow = "Method Not Allowed"
)
