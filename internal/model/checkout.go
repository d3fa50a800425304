package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one distinct (product, size) entry in a cart.
type CartLine struct {
	ProductID    int    `json:"productId"`
	Name         string `json:"name"`
	Image        string `json:"image,omitempty"`
	SelectedSize int    `json:"selectedSize"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unitPrice"`
}

// CartView is the cart as returned to clients.
type CartView struct {
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"itemCount"`
	Subtotal  int64      `json:"subtotal"`
}

// AddToCartRequest adds a product in a size to the session cart.
type AddToCartRequest struct {
	ProductID int `json:"productId"`
	Size      int `json:"size"`
	Quantity  int `json:"quantity"`
}

// UpdateCartRequest replaces the quantity of a cart line.
type UpdateCartRequest struct {
	ProductID int `json:"productId"`
	Size      int `json:"size"`
	Quantity  int `json:"quantity"`
}

// Pricing is the priced breakdown of a cart.
type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

// PaymentIntent is an in-progress payment issued by a gateway. Amount is
// in major units, as the caller sent it; AmountMinor is what the gateway
// charges.
type PaymentIntent struct {
	ID           string      `json:"id"`
	ClientSecret string      `json:"client_secret"`
	Amount       json.Number `json:"amount"`
	AmountMinor  int64       `json:"amountMinor"`
	Currency     string      `json:"currency"`
	Status       string      `json:"status,omitempty"`
}

// Payment intent statuses shared by every gateway.
const (
	PaymentStatusRequiresConfirmation = "requires_confirmation"
	PaymentStatusSucceeded            = "succeeded"
	PaymentStatusFailed               = "failed"
)

// CreatePaymentIntentRequest asks the gateway for a payment token.
// Amount is in whole rupees, as in the storefront's totals.
type CreatePaymentIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Items    []CartLine      `json:"items"`
}

// CheckoutRequest carries the shipping form and a payment method token.
type CheckoutRequest struct {
	Shipping      ShippingDetails `json:"shipping"`
	PaymentMethod string          `json:"paymentMethod"`
}

// Confirmation is the display-only receipt returned after checkout.
type Confirmation struct {
	OrderID         uuid.UUID       `json:"orderId"`
	PaymentIntentID string          `json:"paymentIntentId"`
	Items           []CartLine      `json:"items"`
	Pricing         Pricing         `json:"pricing"`
	Shipping        ShippingDetails `json:"shipping"`
	Status          OrderStatus     `json:"status"`
}

// BuyNowResponse is the cart after a buy-now add, with the next page to show.
type BuyNowResponse struct {
	Cart     CartView `json:"cart"`
	Redirect string   `json:"redirect"`
}

// CheckoutSummary is the cart with its priced breakdown.
type CheckoutSummary struct {
	Cart          CartView `json:"cart"`
	Pricing       Pricing  `json:"pricing"`
	PhoneVerified bool     `json:"phoneVerified"`
}
