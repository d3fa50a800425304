// Package otp issues and verifies short numeric codes bound to phone numbers.
package otp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shoes-store/internal/model"

	"github.com/rs/zerolog"
)

// MinPhoneLength is the shortest phone number accepted for issuance.
const MinPhoneLength = 10

// Config holds the challenge lifetime and resend policy.
type Config struct {
	// TTL is how long an issued code stays valid. Default: 5m.
	TTL time.Duration

	// ResendCooldown is the minimum gap between a challenge and its resend.
	// Zero disables the check. Default: 30s.
	ResendCooldown time.Duration
}

// DefaultConfig returns the storefront's OTP policy.
func DefaultConfig() Config {
	return Config{
		TTL:            5 * time.Minute,
		ResendCooldown: 30 * time.Second,
	}
}

// Option customises a Flow.
type Option func(*Flow)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// WithCodeGenerator replaces the code generator.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(f *Flow) { f.generate = gen }
}

// Flow issues, resends and verifies challenges.
type Flow struct {
	store    Store
	sender   Sender
	cfg      Config
	now      func() time.Time
	generate func() (string, error)
	logger   zerolog.Logger
}

// NewFlow creates an OTP flow over store and sender.
func NewFlow(store Store, sender Sender, cfg Config, logger zerolog.Logger, opts ...Option) *Flow {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	f := &Flow{
		store:    store,
		sender:   sender,
		cfg:      cfg,
		now:      time.Now,
		generate: GenerateCode,
		logger:   logger.With().Str("component", "otp-flow").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TTL returns the configured challenge lifetime.
func (f *Flow) TTL() time.Duration {
	return f.cfg.TTL
}

// NormalisePhone trims surrounding whitespace from a phone number.
func NormalisePhone(phone string) string {
	return strings.TrimSpace(phone)
}

// ValidatePhone applies the length policy used for issuance.
func ValidatePhone(phone string) error {
	if len(NormalisePhone(phone)) < MinPhoneLength {
		return model.ErrInvalidPhone
	}
	return nil
}

// Issue generates a code for phone, overwrites any live challenge for it and
// dispatches the code. The code is never returned.
func (f *Flow) Issue(ctx context.Context, phone string) error {
	phone = NormalisePhone(phone)
	if err := ValidatePhone(phone); err != nil {
		return err
	}

	code, err := f.generate()
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to generate OTP")
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	now := f.now()
	challenge := &model.OtpChallenge{
		PhoneNumber: phone,
		CodeHash:    HashCode(code),
		IssuedAt:    now,
		ExpiresAt:   now.Add(f.cfg.TTL),
	}

	if err := f.store.Upsert(ctx, challenge); err != nil {
		f.logger.Error().Err(err).Str("phone", phone).Msg("failed to store OTP challenge")
		return fmt.Errorf("failed to store OTP challenge: %w", err)
	}

	if err := f.sender.SendOTP(ctx, phone, code); err != nil {
		f.logger.Error().Err(err).Str("phone", phone).Msg("failed to dispatch OTP")
		return fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	f.logger.Debug().
		Str("phone", phone).
		Time("expires_at", challenge.ExpiresAt).
		Msg("OTP challenge issued")

	return nil
}

// Resend re-issues a code unless the live challenge is younger than the
// resend cooldown.
func (f *Flow) Resend(ctx context.Context, phone string) error {
	phone = NormalisePhone(phone)
	if err := ValidatePhone(phone); err != nil {
		return err
	}

	if f.cfg.ResendCooldown > 0 {
		existing, err := f.store.Get(ctx, phone)
		if err != nil {
			f.logger.Error().Err(err).Str("phone", phone).Msg("failed to load OTP challenge")
			return fmt.Errorf("failed to load OTP challenge: %w", err)
		}
		if existing != nil && f.now().Sub(existing.IssuedAt) < f.cfg.ResendCooldown {
			f.logger.Debug().Str("phone", phone).Msg("OTP resend requested during cooldown")
			return model.ErrResendTooSoon
		}
	}

	return f.Issue(ctx, phone)
}

// Verify checks code against the live challenge for phone and consumes it on
// success. Expiry is re-checked here regardless of store-level cleanup; an
// expired challenge is deleted.
func (f *Flow) Verify(ctx context.Context, phone, code string) error {
	phone = NormalisePhone(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return model.NewValidationError("Phone number and OTP are required")
	}

	challenge, err := f.store.Get(ctx, phone)
	if err != nil {
		f.logger.Error().Err(err).Str("phone", phone).Msg("failed to load OTP challenge")
		return fmt.Errorf("failed to load OTP challenge: %w", err)
	}
	if challenge == nil {
		return model.ErrInvalidOrExpiredCode
	}

	if f.now().Sub(challenge.IssuedAt) > f.cfg.TTL {
		if err := f.store.Delete(ctx, phone); err != nil {
			f.logger.Warn().Err(err).Str("phone", phone).Msg("failed to delete expired OTP challenge")
		}
		f.logger.Debug().Str("phone", phone).Msg("OTP challenge expired")
		return model.ErrInvalidOrExpiredCode
	}

	if !CodeEqual(code, challenge.CodeHash) {
		f.logger.Debug().Str("phone", phone).Msg("OTP mismatch")
		return model.ErrInvalidOrExpiredCode
	}

	consumed, err := f.store.Consume(ctx, phone, challenge.CodeHash)
	if err != nil {
		f.logger.Error().Err(err).Str("phone", phone).Msg("failed to consume OTP challenge")
		return fmt.Errorf("failed to consume OTP challenge: %w", err)
	}
	if !consumed {
		// A concurrent verify or re-issue won the race.
		return model.ErrInvalidOrExpiredCode
	}

	f.logger.Info().Str("phone", phone).Msg("phone number verified")
	return nil
}
