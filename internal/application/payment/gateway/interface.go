package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"payhook/internal/domain/session"
)

// Gateway is the narrow collaborator boundary to the remote payment API.
// Each call submits exactly one session creation; retries are the caller's
// responsibility because a double submission creates duplicate sessions.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req session.CheckoutRequest) (*CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, req session.IntentRequest) (*PaymentIntent, error)
}

// CheckoutSession is a created redirect-style session. Raw carries the
// provider's full representation for pass-through responses.
type CheckoutSession struct {
	ID          string
	URL         string
	Status      string
	AmountTotal int64
	Currency    string
	Raw         json.RawMessage
}

// PaymentIntent is a created confirm-style session.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Raw          json.RawMessage
}

// Error is a structured failure returned by the provider API.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error (%d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Message)
}

// ClientFault reports whether the failure was caused by the request rather
// than the provider, which decides the HTTP status surfaced to the caller.
func (e *Error) ClientFault() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
