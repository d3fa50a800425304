package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"shoes-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{amount: "18318", want: 1831800},
		{amount: "2718.36", want: 271836},
		{amount: "0.005", want: 1},
		{amount: "1", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, MinorUnits(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestMockGateway_CreateIntent(t *testing.T) {
	g := NewMockGateway(zerolog.Nop())
	g.now = func() time.Time { return time.UnixMilli(1705312800000) }

	pi, err := g.CreateIntent(context.Background(), decimal.NewFromInt(18318), "", nil)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^pi_1705312800000_[0-9a-z]{9}$`), pi.ID)
	assert.Regexp(t, regexp.MustCompile(`^pi_1705312800000_secret_[0-9a-z]{9}$`), pi.ClientSecret)
	assert.Equal(t, "18318", pi.Amount.String())
	assert.Equal(t, int64(1831800), pi.AmountMinor)
	assert.Equal(t, "inr", pi.Currency)
	assert.Equal(t, model.PaymentStatusRequiresConfirmation, pi.Status)
}

func TestMockGateway_CreateIntent_InvalidAmount(t *testing.T) {
	g := NewMockGateway(zerolog.Nop())

	for _, amt := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := g.CreateIntent(context.Background(), amt, "inr", nil)
		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.KindValidation, de.Kind)
	}
}

func TestMockGateway_Confirm(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		wantErr    error
		wantStatus string
	}{
		{name: "visa", method: "pm_card_visa", wantStatus: model.PaymentStatusSucceeded},
		{name: "declined pm", method: "pm_card_chargeDeclined", wantErr: model.ErrPaymentDeclined, wantStatus: model.PaymentStatusFailed},
		{name: "declined token", method: "tok_chargeDeclined", wantErr: model.ErrPaymentDeclined, wantStatus: model.PaymentStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMockGateway(zerolog.Nop())
			pi, err := g.CreateIntent(context.Background(), decimal.NewFromInt(100), "inr", nil)
			require.NoError(t, err)

			confirmed, err := g.Confirm(context.Background(), pi.ID, tt.method)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, confirmed)
			assert.Equal(t, tt.wantStatus, confirmed.Status)
		})
	}
}

func TestMockGateway_Confirm_DropsIntent(t *testing.T) {
	g := NewMockGateway(zerolog.Nop())
	pi, err := g.CreateIntent(context.Background(), decimal.NewFromInt(100), "inr", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())

	_, err = g.Confirm(context.Background(), pi.ID, "pm_card_visa")
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())

	_, err = g.Confirm(context.Background(), pi.ID, "pm_card_visa")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestMockGateway_EvictExpired(t *testing.T) {
	g := NewMockGateway(zerolog.Nop())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	g.now = func() time.Time { return now.Add(-time.Hour) }
	stale, err := g.CreateIntent(context.Background(), decimal.NewFromInt(100), "inr", nil)
	require.NoError(t, err)

	g.now = func() time.Time { return now.Add(-time.Minute) }
	fresh, err := g.CreateIntent(context.Background(), decimal.NewFromInt(100), "inr", nil)
	require.NoError(t, err)

	g.now = func() time.Time { return now }
	assert.Equal(t, 1, g.EvictExpired())
	assert.Equal(t, 1, g.Len())

	_, err = g.Confirm(context.Background(), stale.ID, "pm_card_visa")
	assert.ErrorIs(t, err, ErrIntentNotFound)
	_, err = g.Confirm(context.Background(), fresh.ID, "pm_card_visa")
	assert.NoError(t, err)
}

func TestMockGateway_RunStopsOnCancel(t *testing.T) {
	g := NewMockGateway(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		g.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gateway janitor did not stop")
	}
}

func TestMockGateway_Confirm_UnknownIntent(t *testing.T) {
	g := NewMockGateway(zerolog.Nop())
	_, err := g.Confirm(context.Background(), "pi_missing", "pm_card_visa")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestMockGateway_UniqueIDs(t *testing.T) {
	g := NewMockGateway(zerolog.Nop())
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		pi, err := g.CreateIntent(context.Background(), decimal.NewFromInt(1), "inr", nil)
		require.NoError(t, err)
		assert.False(t, seen[pi.ID], "duplicate id %s", pi.ID)
		seen[pi.ID] = true
	}
}
