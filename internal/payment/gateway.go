// Package payment creates and confirms payment intents.
package payment

import (
	"context"
	"errors"

	"shoes-store/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a request names none.
const DefaultCurrency = "inr"

// ErrIntentNotFound is returned when confirming an unknown intent.
var ErrIntentNotFound = errors.New("payment intent not found")

// Gateway is the payment provider. Returned intents echo the major-unit
// amount and carry the charged minor-unit amount alongside it.
type Gateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, items []model.CartLine) (*model.PaymentIntent, error)
	Confirm(ctx context.Context, intentID, paymentMethod string) (*model.PaymentIntent, error)
}

// MinorUnits converts a major-unit amount to minor units, rounding half away
// from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
