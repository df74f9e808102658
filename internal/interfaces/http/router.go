package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"payhook/internal/application/payment/gateway"
	"payhook/internal/application/payment/usecases"
	"payhook/internal/application/webhook"
	"payhook/internal/domain/event"
	"payhook/internal/infrastructure/config"
	"payhook/internal/interfaces/http/handlers"
	"payhook/internal/interfaces/http/middleware"
	"payhook/internal/interfaces/http/routes"
	"payhook/internal/shared/logger"
)

// Deps carries the externally constructed collaborators. The caller decides
// which dedupe store and gateway implementation to wire in.
type Deps struct {
	Config      *config.Config
	Gateway     gateway.Gateway
	Archive     event.Archive
	DedupeStore event.DedupeStore
	Logger      logger.Interface
}

// Router wires the verification pipeline and session orchestration behind the
// HTTP surface.
type Router struct {
	engine *gin.Engine
}

func NewRouter(deps Deps) (*Router, error) {
	cfg := deps.Config
	log := deps.Logger

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	verifier, err := webhook.NewVerifier(cfg.Webhook.SigningSecrets, cfg.Webhook.Tolerance(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to build signature verifier: %w", err)
	}

	dispatcher := webhook.NewDispatcher(cfg.Webhook.AllowedEvents, deps.DedupeStore, cfg.Webhook.DedupeRetention(), log)
	dispatcher.Register("checkout.session.completed", usecases.NewCheckoutCompletedHandler(deps.Archive, log))
	dispatcher.Register("payment_intent.succeeded", usecases.NewPaymentIntentSucceededHandler(deps.Archive, log))

	handleEventUC := usecases.NewHandleWebhookEventUseCase(verifier, dispatcher, log)
	createCheckoutUC := usecases.NewCreateCheckoutSessionUseCase(deps.Gateway, log)
	createIntentUC := usecases.NewCreatePaymentIntentUseCase(deps.Gateway, log)

	webhookHandler := handlers.NewWebhookHandler(handleEventUC, cfg.Webhook.MaxBodyBytes, log)
	sessionHandler := handlers.NewSessionHandler(createCheckoutUC, createIntentUC, log)
	healthHandler := handlers.NewHealthHandler()

	engine.Use(middleware.Logger(log))
	engine.Use(middleware.Recovery())

	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})

	engine.GET("/health", healthHandler.Check)

	routes.SetupWebhookRoutes(engine, &routes.WebhookRouteConfig{
		WebhookHandler: webhookHandler,
	})
	routes.SetupPaymentRoutes(engine, &routes.PaymentRouteConfig{
		SessionHandler: sessionHandler,
	})

	return &Router{engine: engine}, nil
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
