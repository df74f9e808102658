package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payhook/internal/domain/session"
	vo "payhook/internal/domain/session/valueobjects"
	"payhook/internal/shared/config"
	"payhook/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
}

func newTestGateway(baseURL string) *StripeGateway {
	return NewStripeGateway(&config.StripeConfig{
		SecretKey:      "sk_test_key",
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
	}, testLogger())
}

func checkoutRequest(t *testing.T) session.CheckoutRequest {
	t.Helper()
	mode, err := vo.NewCheckoutMode("payment")
	require.NoError(t, err)
	fieldType, err := vo.NewFieldType("numeric")
	require.NoError(t, err)
	field, err := vo.NewCustomField("engraving", fieldType, true)
	require.NoError(t, err)

	return session.CheckoutRequest{
		Mode:          mode,
		LineItems:     []session.LineItem{{Price: "price_123", Quantity: 2}},
		CustomFields:  []vo.CustomField{field},
		CustomerEmail: "buyer@example.com",
		SuccessURL:    "https://shop.example.com/success",
		CancelURL:     "https://shop.example.com/cancel",
	}
}

func TestCreateCheckoutSessionEncodesForm(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured = r

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.example.com/c/pay/cs_test_1","status":"open","amount_total":4000,"currency":"usd"}`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL)
	created, err := g.CreateCheckoutSession(context.Background(), checkoutRequest(t))
	require.NoError(t, err)

	assert.Equal(t, "/v1/checkout/sessions", captured.URL.Path)
	assert.Equal(t, "Bearer sk_test_key", captured.Header.Get("Authorization"))
	assert.NotEmpty(t, captured.Header.Get("Idempotency-Key"))
	assert.Equal(t, "application/x-www-form-urlencoded", captured.Header.Get("Content-Type"))

	form := captured.PostForm
	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "price_123", form.Get("line_items[0][price]"))
	assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "engraving", form.Get("custom_fields[0][key]"))
	assert.Equal(t, "numeric", form.Get("custom_fields[0][type]"))
	assert.Equal(t, "true", form.Get("custom_fields[0][optional]"))
	assert.Equal(t, "custom", form.Get("custom_fields[0][label][type]"))
	assert.Equal(t, "buyer@example.com", form.Get("customer_email"))
	assert.Equal(t, "https://shop.example.com/success", form.Get("success_url"))

	assert.Equal(t, "cs_test_1", created.ID)
	assert.Equal(t, "https://checkout.example.com/c/pay/cs_test_1", created.URL)
	assert.Equal(t, int64(4000), created.AmountTotal)
	assert.NotEmpty(t, created.Raw)
}

func TestCreatePaymentIntentEncodesForm(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured = r

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret_x","status":"requires_payment_method","amount":1000,"currency":"usd"}`))
	}))
	defer srv.Close()

	amount, err := vo.NewMoney(1000, "usd")
	require.NoError(t, err)

	g := newTestGateway(srv.URL)
	created, err := g.CreatePaymentIntent(context.Background(), session.IntentRequest{
		Amount:        amount,
		CustomerEmail: "buyer@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/payment_intents", captured.URL.Path)
	form := captured.PostForm
	assert.Equal(t, "1000", form.Get("amount"))
	assert.Equal(t, "usd", form.Get("currency"))
	assert.Equal(t, "true", form.Get("automatic_payment_methods[enabled]"))
	assert.Equal(t, "buyer@example.com", form.Get("receipt_email"))

	assert.Equal(t, "pi_1", created.ID)
	assert.Equal(t, "pi_1_secret_x", created.ClientSecret)
}

func TestGatewayClassifiesProviderErrors(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		body        string
		clientFault bool
		wantCode    string
	}{
		{"invalid request", http.StatusBadRequest, `{"error":{"code":"parameter_invalid_empty","message":"price is required"}}`, true, "parameter_invalid_empty"},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":"rate_limit","message":"too many requests"}}`, true, "rate_limit"},
		{"provider down", http.StatusInternalServerError, `{"error":{"message":"internal error"}}`, false, ""},
		{"unparseable failure body", http.StatusBadGateway, `<html>bad gateway</html>`, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			amount, err := vo.NewMoney(1000, "usd")
			require.NoError(t, err)

			g := newTestGateway(srv.URL)
			_, err = g.CreatePaymentIntent(context.Background(), session.IntentRequest{Amount: amount})
			require.Error(t, err)

			var gwErr *Error
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, tc.status, gwErr.StatusCode)
			assert.Equal(t, tc.clientFault, gwErr.ClientFault())
			assert.Equal(t, tc.wantCode, gwErr.Code)
		})
	}
}

func TestGatewayTransportErrorIsNotProviderError(t *testing.T) {
	g := newTestGateway("http://127.0.0.1:1")

	amount, err := vo.NewMoney(1000, "usd")
	require.NoError(t, err)

	_, err = g.CreatePaymentIntent(context.Background(), session.IntentRequest{Amount: amount})
	require.Error(t, err)

	var gwErr *Error
	assert.False(t, errors.As(err, &gwErr))
}
