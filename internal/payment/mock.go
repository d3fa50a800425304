package payment

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"shoes-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Payment method tokens the mock gateway declines.
var declineTokens = map[string]bool{
	"pm_card_chargeDeclined": true,
	"tok_chargeDeclined":     true,
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultIntentTTL is how long an unconfirmed mock intent is kept.
const DefaultIntentTTL = 30 * time.Minute

type mockIntent struct {
	intent    *model.PaymentIntent
	createdAt time.Time
}

// MockGateway issues fake intents in memory. Confirm succeeds for any
// payment method except the known decline tokens. An intent is dropped
// once confirmed or after the TTL.
type MockGateway struct {
	mu      sync.Mutex
	intents map[string]mockIntent
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

// NewMockGateway creates an empty mock gateway.
func NewMockGateway(logger zerolog.Logger) *MockGateway {
	return &MockGateway{
		intents: make(map[string]mockIntent),
		ttl:     DefaultIntentTTL,
		now:     time.Now,
		logger:  logger.With().Str("component", "mock-payment-gateway").Logger(),
	}
}

func (g *MockGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, items []model.CartLine) (*model.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, model.NewValidationError("Amount must be greater than zero")
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	now := g.now()
	ts := now.UnixMilli()
	suffix, err := randomBase36(9)
	if err != nil {
		return nil, fmt.Errorf("failed to generate intent id: %w", err)
	}

	pi := &model.PaymentIntent{
		ID:           fmt.Sprintf("pi_%d_%s", ts, suffix),
		ClientSecret: fmt.Sprintf("pi_%d_secret_%s", ts, suffix),
		Amount:       json.Number(amount.String()),
		AmountMinor:  MinorUnits(amount),
		Currency:     strings.ToLower(currency),
		Status:       model.PaymentStatusRequiresConfirmation,
	}

	g.mu.Lock()
	g.intents[pi.ID] = mockIntent{intent: pi, createdAt: now}
	g.mu.Unlock()

	g.logger.Debug().
		Str("intent_id", pi.ID).
		Int64("amount_minor", pi.AmountMinor).
		Str("currency", pi.Currency).
		Int("items", len(items)).
		Msg("payment intent created")

	out := *pi
	return &out, nil
}

func (g *MockGateway) Confirm(ctx context.Context, intentID, paymentMethod string) (*model.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.intents[intentID]
	if !ok {
		return nil, ErrIntentNotFound
	}
	delete(g.intents, intentID)
	pi := entry.intent

	if declineTokens[paymentMethod] {
		pi.Status = model.PaymentStatusFailed
		out := *pi
		return &out, model.ErrPaymentDeclined
	}

	pi.Status = model.PaymentStatusSucceeded
	out := *pi
	return &out, nil
}

// EvictExpired drops unconfirmed intents older than the TTL.
func (g *MockGateway) EvictExpired() int {
	cutoff := g.now().Add(-g.ttl)

	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for id, entry := range g.intents {
		if entry.createdAt.Before(cutoff) {
			delete(g.intents, id)
			n++
		}
	}
	return n
}

// Len returns the number of outstanding intents.
func (g *MockGateway) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.intents)
}

// Run evicts expired intents every interval until ctx is cancelled.
func (g *MockGateway) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.EvictExpired(); n > 0 {
				g.logger.Debug().Int("evicted", n).Int("outstanding", g.Len()).Msg("expired payment intents evicted")
			}
		}
	}
}

func randomBase36(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	limit := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(base36[idx.Int64()])
	}
	return b.String(), nil
}
