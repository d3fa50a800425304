package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Order represents a placed customer order.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	PhoneNumber     string          `json:"phoneNumber" db:"phone_number"`
	PaymentIntentID string          `json:"paymentIntentId" db:"payment_intent_id"`
	Shipping        ShippingDetails `json:"shipping"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shippingFee" db:"shipping_fee"`
	Tax             decimal.Decimal `json:"tax" db:"tax"`
	Total           decimal.Decimal `json:"total" db:"total"`
	Currency        string          `json:"currency" db:"currency"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a snapshot of one cart line at order time.
type OrderItem struct {
	ID           uuid.UUID `json:"-" db:"id"`
	OrderID      uuid.UUID `json:"-" db:"order_id"`
	ProductID    int       `json:"productId" db:"product_id"`
	Name         string    `json:"name" db:"name"`
	Image        string    `json:"image,omitempty" db:"image"`
	SelectedSize int       `json:"selectedSize" db:"selected_size"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitPrice    int64     `json:"unitPrice" db:"unit_price"`
}

// ShippingDetails are the delivery fields collected at checkout.
type ShippingDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}
