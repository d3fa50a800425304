// Package session keeps per-browser state: the cart, the verified phone
// number and the OTP attempt in progress.
package session

import (
	"context"
	"sync"
	"time"

	"shoes-store/internal/cart"
	"shoes-store/internal/model"
	"shoes-store/internal/otp"
)

// HeaderName carries the session id on requests and responses.
const HeaderName = "X-Session-ID"

// Session is one browser's storefront state.
type Session struct {
	ID   string
	Cart *cart.Store

	mu            sync.Mutex
	attempt       *otp.Attempt
	verifiedPhone string
	lastSeen      time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		Cart:     cart.NewStore(),
		lastSeen: now,
	}
}

// PhoneVerified reports whether a phone number has been verified in this session.
func (s *Session) PhoneVerified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifiedPhone != ""
}

// VerifiedPhone returns the verified phone number, or "".
func (s *Session) VerifiedPhone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifiedPhone
}

// Require lets action proceed only once the session has a verified phone.
// Otherwise the action is parked on the current attempt (a new one is started
// if needed) and ErrPhoneNotVerified is returned.
func (s *Session) Require(action otp.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.verifiedPhone != "" {
		return nil
	}
	if s.attempt == nil || !s.attempt.Active() {
		s.attempt = otp.NewAttempt(action)
	} else {
		_ = s.attempt.Bind(action)
	}
	return model.ErrPhoneNotVerified
}

// CodeSent records that a code was issued to phone for this session.
func (s *Session) CodeSent(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt == nil || !s.attempt.Active() {
		s.attempt = otp.NewAttempt(otp.ActionNone)
	}
	_ = s.attempt.CodeSent(phone)
}

// MarkVerified records phone as verified and returns the gated action that
// was waiting on it, if any.
func (s *Session) MarkVerified(phone string) otp.Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.verifiedPhone = phone

	if s.attempt == nil {
		return otp.ActionNone
	}
	action, err := s.attempt.Complete(phone)
	if err != nil {
		return otp.ActionNone
	}
	return action
}

// AbortVerification cancels the attempt in progress, dropping its pending action.
func (s *Session) AbortVerification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt != nil {
		_ = s.attempt.Abort()
	}
}

// AttemptState returns the state of the current attempt, or AwaitingPhone
// when none has started.
func (s *Session) AttemptState() otp.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt == nil {
		return otp.AwaitingPhone
	}
	return s.attempt.State()
}

// PendingAction returns the gated action of an active attempt.
func (s *Session) PendingAction() otp.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt == nil || !s.attempt.Active() {
		return otp.ActionNone
	}
	return s.attempt.Pending()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
