package session

import (
	"fmt"
	"net/mail"

	vo "payhook/internal/domain/session/valueobjects"
)

// MaxCustomFields is the provider's limit on checkout custom fields.
const MaxCustomFields = 2

// LineItem references a provider price and a quantity.
type LineItem struct {
	Price    string
	Quantity int64
}

// CheckoutRequest describes a redirect-style session: the browser navigates
// to a hosted checkout page and returns via SuccessURL or CancelURL.
type CheckoutRequest struct {
	Mode          vo.CheckoutMode
	LineItems     []LineItem
	CustomFields  []vo.CustomField
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// Validate applies every structural rule before any remote call is made.
func (r *CheckoutRequest) Validate() error {
	if r.Mode == "" {
		return fmt.Errorf("mode: checkout mode is required")
	}
	if len(r.LineItems) == 0 {
		return fmt.Errorf("line_items: at least one line item is required")
	}
	for i, item := range r.LineItems {
		if item.Price == "" {
			return fmt.Errorf("line_items[%d].price: price is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("line_items[%d].quantity: quantity must be positive, got %d", i, item.Quantity)
		}
	}
	if len(r.CustomFields) > MaxCustomFields {
		return fmt.Errorf("custom_fields: at most %d entries allowed, got %d", MaxCustomFields, len(r.CustomFields))
	}
	if err := validateEmail(r.CustomerEmail); err != nil {
		return fmt.Errorf("customer_email: %w", err)
	}
	return nil
}

// IntentRequest describes a confirm-style session: the caller receives a
// client secret and completes the payment client-side.
type IntentRequest struct {
	Amount        vo.Money
	CustomerEmail string
}

func (r *IntentRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount: amount must be positive")
	}
	if err := validateEmail(r.CustomerEmail); err != nil {
		return fmt.Errorf("customer_email: %w", err)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// ResultKind discriminates the two mutually exclusive session result shapes.
type ResultKind string

const (
	KindRedirect ResultKind = "redirect"
	KindConfirm  ResultKind = "confirm"
)

// Result is either a redirect target or a client confirmation secret, never
// both. The constructors are the only way to build one.
type Result struct {
	kind         ResultKind
	url          string
	clientSecret string
}

func NewRedirectResult(url string) Result {
	return Result{kind: KindRedirect, url: url}
}

func NewConfirmResult(clientSecret string) Result {
	return Result{kind: KindConfirm, clientSecret: clientSecret}
}

func (r Result) Kind() ResultKind {
	return r.kind
}

func (r Result) URL() string {
	return r.url
}

func (r Result) ClientSecret() string {
	return r.clientSecret
}
