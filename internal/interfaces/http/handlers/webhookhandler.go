package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"payhook/internal/application/payment/usecases"
	"payhook/internal/application/webhook"
	"payhook/internal/shared/logger"
)

// WebhookHandler terminates the provider's delivery endpoint. Responses follow
// the provider's retry contract: any 2xx acknowledges the delivery, a 500
// requests a redelivery, and 4xx marks it permanently rejected.
type WebhookHandler struct {
	handleEventUC *usecases.HandleWebhookEventUseCase
	maxBodyBytes  int64
	logger        logger.Interface
}

func NewWebhookHandler(
	handleEventUC *usecases.HandleWebhookEventUseCase,
	maxBodyBytes int64,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		handleEventUC: handleEventUC,
		maxBodyBytes:  maxBodyBytes,
		logger:        logger,
	}
}

func (h *WebhookHandler) HandleDelivery(c *gin.Context) {
	rawBody, err := webhook.CaptureBody(c.Request, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, webhook.ErrBodyTooLarge) {
			h.logger.Warnw("webhook body exceeds size limit", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Request body too large"})
			return
		}
		h.logger.Warnw("failed to read webhook body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	sigHeader := c.GetHeader(webhook.SignatureHeader)
	if sigHeader == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing signature header"})
		return
	}

	outcome, err := h.handleEventUC.Execute(c.Request.Context(), rawBody, sigHeader)
	if err != nil && outcome == "" {
		// Verification failures get one generic message so the response does
		// not reveal which check failed.
		if errors.Is(err, webhook.ErrMalformedPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid signature"})
		return
	}

	if !outcome.Acknowledged() {
		h.logger.Errorw("webhook processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Webhook handler failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Received"})
}
