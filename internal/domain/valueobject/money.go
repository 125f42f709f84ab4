package valueobject

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidAmount   = errors.New("amount must be non-negative")
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Money is a monetary value held in minor units
type Money struct {
	Cents    int64
	Currency string // ISO 4217 currency code (e.g., "USD", "EUR")
}

// NewMoney creates a Money value from a decimal amount
func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("%w: %f", ErrInvalidAmount, amount)
	}
	if !isValidCurrency(currency) {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidCurrency, currency)
	}
	return Money{
		Cents:    int64(math.Round(amount * 100)),
		Currency: strings.ToUpper(currency),
	}, nil
}

// MustUSD is used for the static catalog only
func MustUSD(amount float64) Money {
	m, err := NewMoney(amount, "USD")
	if err != nil {
		panic(err)
	}
	return m
}

// isValidCurrency checks if the currency code is valid (3 letters)
func isValidCurrency(currency string) bool {
	if len(currency) != 3 {
		return false
	}
	for _, c := range currency {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	return true
}

// Amount returns the decimal amount
func (m Money) Amount() float64 {
	return float64(m.Cents) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.Cents/100, m.Cents%100, m.Currency)
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}
