package routes

import (
	"github.com/gin-gonic/gin"

	"payhook/internal/interfaces/http/handlers"
)

// PaymentRouteConfig holds dependencies for session creation routes.
type PaymentRouteConfig struct {
	SessionHandler *handlers.SessionHandler
}

// SetupPaymentRoutes configures the session creation endpoints.
func SetupPaymentRoutes(engine *gin.Engine, cfg *PaymentRouteConfig) {
	stripe := engine.Group("/api/stripe")
	{
		stripe.POST("/checkout/sessions", cfg.SessionHandler.CreateCheckoutSession)
		stripe.POST("/payment-intents", cfg.SessionHandler.CreatePaymentIntent)
	}
}
