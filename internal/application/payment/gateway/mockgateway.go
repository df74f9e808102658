package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"payhook/internal/domain/session"
)

// MockGateway fabricates provider responses in memory and counts calls so
// tests can assert exactly how many remote submissions a flow would make.
type MockGateway struct {
	mu            sync.Mutex
	checkoutCalls int
	intentCalls   int

	// CheckoutErr and IntentErr, when set, are returned instead of a result.
	CheckoutErr error
	IntentErr   error
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) CreateCheckoutSession(_ context.Context, req session.CheckoutRequest) (*CheckoutSession, error) {
	m.mu.Lock()
	m.checkoutCalls++
	n := m.checkoutCalls
	m.mu.Unlock()

	if m.CheckoutErr != nil {
		return nil, m.CheckoutErr
	}

	id := fmt.Sprintf("cs_test_mock%06d", n)
	result := &CheckoutSession{
		ID:       id,
		URL:      "https://checkout.example.com/c/pay/" + id,
		Status:   "open",
		Currency: "usd",
	}
	result.Raw, _ = json.Marshal(map[string]any{
		"id":             result.ID,
		"object":         "checkout.session",
		"url":            result.URL,
		"status":         result.Status,
		"mode":           req.Mode.String(),
		"customer_email": req.CustomerEmail,
	})
	return result, nil
}

func (m *MockGateway) CreatePaymentIntent(_ context.Context, req session.IntentRequest) (*PaymentIntent, error) {
	m.mu.Lock()
	m.intentCalls++
	n := m.intentCalls
	m.mu.Unlock()

	if m.IntentErr != nil {
		return nil, m.IntentErr
	}

	id := fmt.Sprintf("pi_mock%06d", n)
	result := &PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_mock",
		Status:       "requires_payment_method",
		Amount:       req.Amount.AmountInCents(),
		Currency:     req.Amount.Currency(),
	}
	result.Raw, _ = json.Marshal(map[string]any{
		"id":            result.ID,
		"object":        "payment_intent",
		"client_secret": result.ClientSecret,
		"status":        result.Status,
		"amount":        result.Amount,
		"currency":      result.Currency,
	})
	return result, nil
}

// CheckoutCalls returns how many checkout sessions were requested.
func (m *MockGateway) CheckoutCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkoutCalls
}

// IntentCalls returns how many payment intents were requested.
func (m *MockGateway) IntentCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intentCalls
}
