package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shoes-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// StripeGateway creates and confirms real Stripe payment intents.
type StripeGateway struct {
	logger zerolog.Logger
}

// NewStripeGateway configures the Stripe client with secretKey.
func NewStripeGateway(secretKey string, logger zerolog.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{
		logger: logger.With().Str("component", "stripe-gateway").Logger(),
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, items []model.CartLine) (*model.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, model.NewValidationError("Amount must be greater than zero")
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	params.AddMetadata("item_count", strconv.Itoa(len(items)))

	pi, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to create stripe payment intent")
		return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	return toIntent(pi), nil
}

func (g *StripeGateway) Confirm(ctx context.Context, intentID, paymentMethod string) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethod),
	}
	params.Context = ctx

	pi, err := paymentintent.Confirm(intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			g.logger.Info().Str("intent_id", intentID).Str("code", string(stripeErr.Code)).Msg("card declined")
			return nil, model.ErrPaymentDeclined.WithMessage(stripeErr.Msg)
		}
		g.logger.Error().Err(err).Str("intent_id", intentID).Msg("failed to confirm stripe payment intent")
		return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	out := toIntent(pi)
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		out.Status = model.PaymentStatusFailed
		return out, model.ErrPaymentDeclined
	}
	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) *model.PaymentIntent {
	status := string(pi.Status)
	if pi.Status == stripe.PaymentIntentStatusSucceeded {
		status = model.PaymentStatusSucceeded
	}
	return &model.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       json.Number(decimal.New(pi.Amount, -2).String()),
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		Status:       status,
	}
}
