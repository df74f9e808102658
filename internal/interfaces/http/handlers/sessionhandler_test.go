package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payhook/internal/application/payment/gateway"
	"payhook/internal/application/payment/usecases"
	"payhook/internal/interfaces/http/handlers/testutil"
)

func newSessionTestHandler(mock *gateway.MockGateway) *SessionHandler {
	log := testutil.NewMockLogger()
	return NewSessionHandler(
		usecases.NewCreateCheckoutSessionUseCase(mock, log),
		usecases.NewCreatePaymentIntentUseCase(mock, log),
		log,
	)
}

func validCheckoutBody() map[string]any {
	return map[string]any{
		"mode":           "payment",
		"line_items":     []map[string]any{{"price": "price_123", "quantity": 1}},
		"customer_email": "4242@stripe.com",
		"success_url":    "https://shop.example.com/success",
		"cancel_url":     "https://shop.example.com/cancel",
	}
}

func TestCreateCheckoutSessionReturnsProviderJSON(t *testing.T) {
	mock := gateway.NewMockGateway()
	h := newSessionTestHandler(mock)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/stripe/checkout/sessions", validCheckoutBody())
	h.CreateCheckoutSession(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, mock.CheckoutCalls())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "checkout.session", resp["object"])
	assert.NotEmpty(t, resp["url"])
}

func TestCreateCheckoutSessionBindingRejectsBadBody(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing mode", func(b map[string]any) { delete(b, "mode") }},
		{"empty line items", func(b map[string]any) { b["line_items"] = []map[string]any{} }},
		{"bad email", func(b map[string]any) { b["customer_email"] = "nope" }},
		{"missing success url", func(b map[string]any) { delete(b, "success_url") }},
		{"three custom fields", func(b map[string]any) {
			b["custom_fields"] = []map[string]any{
				{"key": "a", "type": "text"},
				{"key": "b", "type": "text"},
				{"key": "c", "type": "numeric"},
			}
		}},
		{"unknown field type", func(b map[string]any) {
			b["custom_fields"] = []map[string]any{{"key": "a", "type": "dropdown"}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := gateway.NewMockGateway()
			h := newSessionTestHandler(mock)

			body := validCheckoutBody()
			tc.mutate(body)

			c, w := testutil.NewTestContext(http.MethodPost, "/api/stripe/checkout/sessions", body)
			h.CreateCheckoutSession(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, mock.CheckoutCalls())

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestCreateCheckoutSessionFailureCarriesTopLevelMessage(t *testing.T) {
	// Failure bodies expose the reason under a top-level message key, the
	// same flat shape the webhook endpoint answers with.
	mock := gateway.NewMockGateway()
	mock.CheckoutErr = &gateway.Error{StatusCode: 402, Code: "card_declined", Message: "Your card was declined."}
	h := newSessionTestHandler(mock)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/stripe/checkout/sessions", validCheckoutBody())
	h.CreateCheckoutSession(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Your card was declined.", body["message"])
}

func TestCreateCheckoutSessionUnknownModeFailsValidation(t *testing.T) {
	// "recurring" passes binding but fails domain validation.
	mock := gateway.NewMockGateway()
	h := newSessionTestHandler(mock)

	body := validCheckoutBody()
	body["mode"] = "recurring"

	c, w := testutil.NewTestContext(http.MethodPost, "/api/stripe/checkout/sessions", body)
	h.CreateCheckoutSession(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, mock.CheckoutCalls())

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "validation_error", resp.Error.Type)
	assert.NotEmpty(t, resp.Message)
}

func TestCreatePaymentIntentReturnsProviderJSON(t *testing.T) {
	mock := gateway.NewMockGateway()
	h := newSessionTestHandler(mock)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/stripe/payment-intents", map[string]any{
		"amount":   1000,
		"currency": "usd",
	})
	h.CreatePaymentIntent(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, mock.IntentCalls())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "payment_intent", resp["object"])
	assert.NotEmpty(t, resp["client_secret"])
	assert.Equal(t, float64(1000), resp["amount"])
}

func TestCreatePaymentIntentRejectsNegativeAmount(t *testing.T) {
	mock := gateway.NewMockGateway()
	h := newSessionTestHandler(mock)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/stripe/payment-intents", map[string]any{
		"amount":   -5,
		"currency": "usd",
	})
	h.CreatePaymentIntent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, mock.IntentCalls())
}

func TestCreatePaymentIntentProviderOutageAnswers502(t *testing.T) {
	mock := gateway.NewMockGateway()
	mock.IntentErr = &gateway.Error{StatusCode: 503, Message: "service unavailable"}
	h := newSessionTestHandler(mock)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/stripe/payment-intents", map[string]any{
		"amount":   1000,
		"currency": "usd",
	})
	h.CreatePaymentIntent(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "bad_gateway", resp.Error.Type)
	assert.NotEmpty(t, resp.Message)
}
