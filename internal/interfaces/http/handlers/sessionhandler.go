package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payhook/internal/application/payment/usecases"
	"payhook/internal/shared/logger"
	"payhook/internal/shared/utils"
)

// SessionHandler terminates the session creation endpoints. Success responses
// pass the provider's full JSON representation through unchanged, so clients
// see the same shape they would get calling the provider directly.
type SessionHandler struct {
	createCheckoutUC *usecases.CreateCheckoutSessionUseCase
	createIntentUC   *usecases.CreatePaymentIntentUseCase
	logger           logger.Interface
}

func NewSessionHandler(
	createCheckoutUC *usecases.CreateCheckoutSessionUseCase,
	createIntentUC *usecases.CreatePaymentIntentUseCase,
	logger logger.Interface,
) *SessionHandler {
	return &SessionHandler{
		createCheckoutUC: createCheckoutUC,
		createIntentUC:   createIntentUC,
		logger:           logger,
	}
}

type LineItemRequest struct {
	Price    string `json:"price" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
}

type CustomFieldRequest struct {
	Key      string `json:"key" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=numeric text"`
	Optional bool   `json:"optional"`
}

type CreateCheckoutSessionRequest struct {
	Mode          string               `json:"mode" binding:"required"`
	LineItems     []LineItemRequest    `json:"line_items" binding:"required,min=1,dive"`
	CustomFields  []CustomFieldRequest `json:"custom_fields" binding:"omitempty,max=2,dive"`
	CustomerEmail string               `json:"customer_email" binding:"omitempty,email"`
	SuccessURL    string               `json:"success_url" binding:"required,url"`
	CancelURL     string               `json:"cancel_url" binding:"required,url"`
}

func (h *SessionHandler) CreateCheckoutSession(c *gin.Context) {
	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind checkout session request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, utils.TranslateBindingError(err))
		return
	}

	cmd := usecases.CreateCheckoutSessionCommand{
		Mode:          req.Mode,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
	}
	for _, item := range req.LineItems {
		cmd.LineItems = append(cmd.LineItems, usecases.CheckoutLineItem{
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	for _, f := range req.CustomFields {
		cmd.CustomFields = append(cmd.CustomFields, usecases.CheckoutCustomField{
			Key:      f.Key,
			Type:     f.Type,
			Optional: f.Optional,
		})
	}

	result, err := h.createCheckoutUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Data(http.StatusCreated, "application/json", result.Raw)
}

type CreatePaymentIntentRequest struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
}

func (h *SessionHandler) CreatePaymentIntent(c *gin.Context) {
	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind payment intent request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, utils.TranslateBindingError(err))
		return
	}

	cmd := usecases.CreatePaymentIntentCommand{
		AmountInCents: req.Amount,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
	}

	result, err := h.createIntentUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Data(http.StatusCreated, "application/json", result.Raw)
}
