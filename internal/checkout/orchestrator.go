package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shoes-store/internal/cart"
	"shoes-store/internal/model"
	"shoes-store/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderRecorder persists a paid order.
type OrderRecorder interface {
	CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.OrderResponse, error)
}

// Request is one checkout submission for a session.
type Request struct {
	Cart          *cart.Store
	VerifiedPhone string
	UserID        *uuid.UUID
	Shipping      model.ShippingDetails
	PaymentMethod string
}

// Orchestrator runs checkout: price, pay, record, clear.
type Orchestrator struct {
	gateway payment.Gateway
	orders  OrderRecorder
	cfg     Config
	now     func() time.Time
	logger  zerolog.Logger
}

// NewOrchestrator creates a checkout orchestrator. orders may be nil, in
// which case confirmed orders are not persisted.
func NewOrchestrator(gateway payment.Gateway, orders OrderRecorder, cfg Config, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		gateway: gateway,
		orders:  orders,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger.With().Str("component", "checkout").Logger(),
	}
}

// Summary prices the cart without side effects.
func (o *Orchestrator) Summary(c *cart.Store) model.Pricing {
	return ComputePricing(c.Lines(), o.cfg)
}

// CreatePaymentIntent asks the gateway for a payment token for an arbitrary
// amount. currency defaults to the configured currency.
func (o *Orchestrator) CreatePaymentIntent(ctx context.Context, req model.CreatePaymentIntentRequest) (*model.PaymentIntent, error) {
	if !req.Amount.IsPositive() {
		return nil, model.NewValidationError("Amount must be greater than zero")
	}
	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = o.cfg.Currency
	}

	pi, err := o.gateway.CreateIntent(ctx, req.Amount, currency, req.Items)
	if err != nil {
		return nil, err
	}

	o.logger.Info().
		Str("intent_id", pi.ID).
		Int64("amount_minor", pi.AmountMinor).
		Str("currency", pi.Currency).
		Msg("payment intent created")

	return pi, nil
}

// Checkout submits the session's cart. The cart is cleared only after the
// payment is confirmed; any earlier failure leaves it untouched.
func (o *Orchestrator) Checkout(ctx context.Context, req Request) (*model.Confirmation, error) {
	lines := req.Cart.Lines()
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	if req.VerifiedPhone == "" {
		return nil, model.ErrPhoneNotVerified
	}

	shipping := normaliseShipping(req.Shipping)
	if err := ValidateShipping(shipping); err != nil {
		return nil, err
	}

	pricing := ComputePricing(lines, o.cfg)

	intent, err := o.gateway.CreateIntent(ctx, pricing.Total, pricing.Currency, lines)
	if err != nil {
		o.logger.Error().Err(err).Msg("failed to create payment intent")
		return nil, err
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = "pm_card_visa"
	}

	confirmed, err := o.gateway.Confirm(ctx, intent.ID, paymentMethod)
	if err != nil {
		if errors.Is(err, model.ErrPaymentDeclined) {
			o.logger.Info().Str("intent_id", intent.ID).Msg("payment declined")
			return nil, err
		}
		if errors.Is(err, payment.ErrIntentNotFound) {
			return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
		}
		o.logger.Error().Err(err).Str("intent_id", intent.ID).Msg("failed to confirm payment")
		return nil, err
	}

	now := o.now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          req.UserID,
		PhoneNumber:     req.VerifiedPhone,
		PaymentIntentID: confirmed.ID,
		Shipping:        shipping,
		Subtotal:        pricing.Subtotal,
		ShippingFee:     pricing.Shipping,
		Tax:             pricing.Tax,
		Total:           pricing.Total,
		Currency:        pricing.Currency,
		Status:          model.OrderStatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if o.orders != nil {
		if _, err := o.orders.CreateOrder(ctx, order, orderItems(order.ID, lines)); err != nil {
			// Payment is already taken; the customer still gets a receipt.
			o.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("intent_id", confirmed.ID).
				Msg("failed to persist paid order")
		}
	}

	req.Cart.Clear()

	o.logger.Info().
		Str("order_id", order.ID.String()).
		Str("intent_id", confirmed.ID).
		Int("item_count", len(lines)).
		Str("total", pricing.Total.StringFixed(2)).
		Msg("checkout completed")

	return &model.Confirmation{
		OrderID:         order.ID,
		PaymentIntentID: confirmed.ID,
		Items:           lines,
		Pricing:         pricing,
		Shipping:        shipping,
		Status:          order.Status,
	}, nil
}

// ValidateShipping requires every shipping field, reporting the first missing one.
func ValidateShipping(s model.ShippingDetails) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", s.Name},
		{"email", s.Email},
		{"phone", s.Phone},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"zipCode", s.ZipCode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return model.NewValidationError(fmt.Sprintf("Shipping %s is required", f.name))
		}
	}
	if !strings.Contains(s.Email, "@") {
		return model.NewValidationError("Shipping email is invalid")
	}
	return nil
}

func normaliseShipping(s model.ShippingDetails) model.ShippingDetails {
	return model.ShippingDetails{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Phone:   strings.TrimSpace(s.Phone),
		Address: strings.TrimSpace(s.Address),
		City:    strings.TrimSpace(s.City),
		State:   strings.TrimSpace(s.State),
		ZipCode: strings.TrimSpace(s.ZipCode),
	}
}

func orderItems(orderID uuid.UUID, lines []model.CartLine) []model.OrderItem {
	items := make([]model.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = model.OrderItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			ProductID:    l.ProductID,
			Name:         l.Name,
			Image:        l.Image,
			SelectedSize: l.SelectedSize,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
		}
	}
	return items
}
