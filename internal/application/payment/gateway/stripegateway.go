package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"payhook/internal/domain/session"
	"payhook/internal/shared/config"
	"payhook/internal/shared/logger"
)

// StripeGateway speaks the provider's form-encoded HTTP API. The base URL is
// configurable so tests can point it at an httptest server.
type StripeGateway struct {
	client    *http.Client
	secretKey string
	baseURL   string
	logger    logger.Interface
}

func NewStripeGateway(cfg *config.StripeConfig, log logger.Interface) *StripeGateway {
	return &StripeGateway{
		client:    &http.Client{Timeout: cfg.Timeout()},
		secretKey: cfg.SecretKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		logger:    log,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req session.CheckoutRequest) (*CheckoutSession, error) {
	params := url.Values{}
	params.Set("mode", req.Mode.String())
	params.Set("success_url", req.SuccessURL)
	params.Set("cancel_url", req.CancelURL)
	if req.CustomerEmail != "" {
		params.Set("customer_email", req.CustomerEmail)
	}
	for i, item := range req.LineItems {
		params.Set(fmt.Sprintf("line_items[%d][price]", i), item.Price)
		params.Set(fmt.Sprintf("line_items[%d][quantity]", i), strconv.FormatInt(item.Quantity, 10))
	}
	for i, field := range req.CustomFields {
		params.Set(fmt.Sprintf("custom_fields[%d][key]", i), field.Key())
		params.Set(fmt.Sprintf("custom_fields[%d][type]", i), field.Type().String())
		params.Set(fmt.Sprintf("custom_fields[%d][optional]", i), strconv.FormatBool(field.Optional()))
		params.Set(fmt.Sprintf("custom_fields[%d][label][type]", i), "custom")
		params.Set(fmt.Sprintf("custom_fields[%d][label][custom]", i), field.Key())
	}

	raw, err := g.post(ctx, "/v1/checkout/sessions", params)
	if err != nil {
		return nil, err
	}

	var body struct {
		ID          string `json:"id"`
		URL         string `json:"url"`
		Status      string `json:"status"`
		AmountTotal int64  `json:"amount_total"`
		Currency    string `json:"currency"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode checkout session response: %w", err)
	}

	return &CheckoutSession{
		ID:          body.ID,
		URL:         body.URL,
		Status:      body.Status,
		AmountTotal: body.AmountTotal,
		Currency:    body.Currency,
		Raw:         raw,
	}, nil
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req session.IntentRequest) (*PaymentIntent, error) {
	params := url.Values{}
	params.Set("amount", strconv.FormatInt(req.Amount.AmountInCents(), 10))
	params.Set("currency", req.Amount.Currency())
	params.Set("automatic_payment_methods[enabled]", "true")
	if req.CustomerEmail != "" {
		params.Set("receipt_email", req.CustomerEmail)
	}

	raw, err := g.post(ctx, "/v1/payment_intents", params)
	if err != nil {
		return nil, err
	}

	var body struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
		Status       string `json:"status"`
		Amount       int64  `json:"amount"`
		Currency     string `json:"currency"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode payment intent response: %w", err)
	}

	return &PaymentIntent{
		ID:           body.ID,
		ClientSecret: body.ClientSecret,
		Status:       body.Status,
		Amount:       body.Amount,
		Currency:     body.Currency,
		Raw:          raw,
	}, nil
}

// post submits one form-encoded request. Every call carries a fresh
// idempotency key so the provider can collapse accidental duplicates at the
// transport level without this process retrying.
func (g *StripeGateway) post(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("provider request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		gwErr := &Error{StatusCode: resp.StatusCode, Message: "provider request failed"}
		var failure struct {
			Err struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if jsonErr := json.Unmarshal(body, &failure); jsonErr == nil && failure.Err.Message != "" {
			gwErr.Code = failure.Err.Code
			gwErr.Message = failure.Err.Message
		}
		g.logger.Warnw("provider rejected request",
			"path", path,
			"status", resp.StatusCode,
			"code", gwErr.Code,
		)
		return nil, gwErr
	}

	return body, nil
}
