package valueobjects

import "fmt"

// CheckoutMode determines whether a payment flow ends in a browser redirect
// to hosted checkout or in a client-side confirmation step.
type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
	ModeSetup        CheckoutMode = "setup"
)

// NewCheckoutMode parses a caller-supplied mode string. "one_time" is accepted
// as an alias for the provider's single-payment mode.
func NewCheckoutMode(s string) (CheckoutMode, error) {
	switch s {
	case "payment", "one_time":
		return ModePayment, nil
	case "subscription":
		return ModeSubscription, nil
	case "setup":
		return ModeSetup, nil
	default:
		return "", fmt.Errorf("unsupported checkout mode: %s", s)
	}
}

func (m CheckoutMode) String() string {
	return string(m)
}
