// Package checkout prices a cart and turns it into a paid order.
package checkout

import (
	"shoes-store/internal/model"

	"github.com/shopspring/decimal"
)

// Config holds the pricing policy.
type Config struct {
	ShippingFee int64
	TaxRate     decimal.Decimal
	Currency    string
}

// DefaultConfig returns the storefront's pricing policy: flat ₹500 shipping,
// 18% tax, prices in INR.
func DefaultConfig() Config {
	return Config{
		ShippingFee: 500,
		TaxRate:     decimal.RequireFromString("0.18"),
		Currency:    "inr",
	}
}

// ComputePricing prices lines under cfg. Shipping applies only to a
// non-empty cart; tax is rounded to two places.
func ComputePricing(lines []model.CartLine, cfg Config) model.Pricing {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromInt(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	shipping := decimal.Zero
	if len(lines) > 0 {
		shipping = decimal.NewFromInt(cfg.ShippingFee)
	}

	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	return model.Pricing{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
		Currency: cfg.Currency,
	}
}
