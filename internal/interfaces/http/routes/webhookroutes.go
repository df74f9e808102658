package routes

import (
	"github.com/gin-gonic/gin"

	"payhook/internal/interfaces/http/handlers"
)

// WebhookRouteConfig holds dependencies for webhook routes.
type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
}

// SetupWebhookRoutes configures the provider delivery endpoint. Only POST is
// registered; other methods fall through to the router's method-not-allowed
// response.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	stripe := engine.Group("/api/stripe")
	{
		stripe.POST("/webhook", cfg.WebhookHandler.HandleDelivery)
	}
}
