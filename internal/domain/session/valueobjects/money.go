package valueobjects

import (
	"fmt"
	"strings"
)

// supportedCurrencies is the closed set the orchestrator accepts.
var supportedCurrencies = map[string]struct{}{
	"usd": {},
	"eur": {},
	"gbp": {},
}

type Money struct {
	amountInCents int64
	currency      string
}

// NewMoney validates that the amount is positive and the currency is in the
// supported set.
func NewMoney(amountInCents int64, currency string) (Money, error) {
	if amountInCents <= 0 {
		return Money{}, fmt.Errorf("amount must be positive, got %d", amountInCents)
	}
	currency = strings.ToLower(currency)
	if _, ok := supportedCurrencies[currency]; !ok {
		return Money{}, fmt.Errorf("unsupported currency: %s", currency)
	}
	return Money{
		amountInCents: amountInCents,
		currency:      currency,
	}, nil
}

func (m Money) AmountInCents() int64 {
	return m.amountInCents
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) IsPositive() bool {
	return m.amountInCents > 0
}

func (m Money) Equals(other Money) bool {
	return m.amountInCents == other.amountInCents && m.currency == other.currency
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", float64(m.amountInCents)/100.0, m.currency)
}
