package session

import (
	"context"
	"testing"
	"time"

	"shoes-store/internal/model"
	"shoes-store/internal/otp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(time.Hour, 0, zerolog.Nop())

	s, created := r.Resolve("")
	require.True(t, created)
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)

	again, created := r.Resolve(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	other, created := r.Resolve("not-a-uuid")
	assert.True(t, created)
	assert.NotEqual(t, s.ID, other.ID)

	unknown, created := r.Resolve(uuid.NewString())
	assert.True(t, created)
	assert.NotEqual(t, s.ID, unknown.ID)

	assert.Equal(t, 3, r.Len())
}

func TestRegistry_EvictIdle(t *testing.T) {
	r := NewRegistry(time.Hour, 0, zerolog.Nop())
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	stale, _ := r.Resolve("")
	now = now.Add(30 * time.Minute)
	fresh, _ := r.Resolve("")

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle())

	_, ok := r.Get(stale.ID)
	assert.False(t, ok)
	_, ok = r.Get(fresh.ID)
	assert.True(t, ok)
}

func TestRegistry_ResolveTouches(t *testing.T) {
	r := NewRegistry(time.Hour, 0, zerolog.Nop())
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	s, _ := r.Resolve("")
	now = now.Add(50 * time.Minute)
	r.Resolve(s.ID)
	now = now.Add(50 * time.Minute)

	assert.Equal(t, 0, r.EvictIdle())
}

func TestRegistry_LookupDoesNotCreate(t *testing.T) {
	r := NewRegistry(time.Hour, 0, zerolog.Nop())

	for _, id := range []string{"", "not-a-uuid", uuid.NewString()} {
		_, ok := r.Lookup(id)
		assert.False(t, ok)
	}
	assert.Zero(t, r.Len())

	s := r.Create()
	found, ok := r.Lookup(s.ID)
	require.True(t, ok)
	assert.Same(t, s, found)
}

func TestRegistry_Transient(t *testing.T) {
	r := NewRegistry(time.Hour, 0, zerolog.Nop())

	s := r.Transient()
	assert.Empty(t, s.ID)
	assert.True(t, s.Cart.IsEmpty())
	assert.False(t, s.PhoneVerified())
	assert.Zero(t, r.Len())
}

func TestRegistry_EvictsLeastRecentAtLimit(t *testing.T) {
	r := NewRegistry(time.Hour, 2, zerolog.Nop())

	first := r.Create()
	second := r.Create()
	_, ok := r.Lookup(first.ID)
	require.True(t, ok)

	third := r.Create()
	assert.Equal(t, 2, r.Len())

	_, ok = r.Get(second.ID)
	assert.False(t, ok)
	_, ok = r.Get(first.ID)
	assert.True(t, ok)
	_, ok = r.Get(third.ID)
	assert.True(t, ok)

	for i := 0; i < 50; i++ {
		r.Create()
	}
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry(time.Hour, 0, zerolog.Nop())
	s := r.Create()

	r.Delete(s.ID)
	r.Delete(s.ID)

	_, ok := r.Get(s.ID)
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r := NewRegistry(time.Hour, 0, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestSession_GateThenVerify(t *testing.T) {
	s := newSession(uuid.NewString(), time.Now())

	err := s.Require(otp.ActionAddToCart)
	assert.ErrorIs(t, err, model.ErrPhoneNotVerified)
	assert.Equal(t, otp.ActionAddToCart, s.PendingAction())
	assert.Equal(t, otp.AwaitingPhone, s.AttemptState())

	s.CodeSent("9876543210")
	assert.Equal(t, otp.AwaitingCode, s.AttemptState())

	action := s.MarkVerified("9876543210")
	assert.Equal(t, otp.ActionAddToCart, action)
	assert.True(t, s.PhoneVerified())
	assert.Equal(t, "9876543210", s.VerifiedPhone())

	assert.NoError(t, s.Require(otp.ActionCheckout))
}

func TestSession_RebindPendingAction(t *testing.T) {
	s := newSession(uuid.NewString(), time.Now())

	_ = s.Require(otp.ActionAddToCart)
	_ = s.Require(otp.ActionBuyNow)
	assert.Equal(t, otp.ActionBuyNow, s.PendingAction())
}

func TestSession_AbortDropsPending(t *testing.T) {
	s := newSession(uuid.NewString(), time.Now())

	_ = s.Require(otp.ActionCheckout)
	s.AbortVerification()
	assert.Equal(t, otp.ActionNone, s.PendingAction())
	assert.Equal(t, otp.Aborted, s.AttemptState())

	// A later gate starts a fresh attempt.
	_ = s.Require(otp.ActionAddToCart)
	assert.Equal(t, otp.ActionAddToCart, s.PendingAction())
}

func TestSession_VerifyWithoutAttempt(t *testing.T) {
	s := newSession(uuid.NewString(), time.Now())

	assert.Equal(t, otp.ActionNone, s.MarkVerified("9876543210"))
	assert.True(t, s.PhoneVerified())
}

func TestContext(t *testing.T) {
	s := newSession(uuid.NewString(), time.Now())
	ctx := NewContext(context.Background(), s)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
