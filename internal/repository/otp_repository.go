package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shoes-store/internal/model"
	"shoes-store/internal/otp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// otpRepository implements otp.Store using PostgreSQL.
type otpRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOTPRepository creates a PostgreSQL-backed OTP challenge store.
func NewOTPRepository(pool *pgxpool.Pool, logger zerolog.Logger) otp.Store {
	return &otpRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "otp").Logger(),
	}
}

// Upsert creates or overwrites the challenge for the phone number.
func (r *otpRepository) Upsert(ctx context.Context, c *model.OtpChallenge) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO otp_challenges (phone_number, code_hash, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone_number) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
		    issued_at = EXCLUDED.issued_at,
		    expires_at = EXCLUDED.expires_at
	`, c.PhoneNumber, c.CodeHash, c.IssuedAt, c.ExpiresAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to upsert otp challenge")
		return fmt.Errorf("failed to upsert otp challenge: %w", err)
	}
	return nil
}

// Get returns the challenge for phone, or nil if there is none.
func (r *otpRepository) Get(ctx context.Context, phone string) (*model.OtpChallenge, error) {
	var c model.OtpChallenge
	err := r.pool.QueryRow(ctx, `
		SELECT phone_number, code_hash, issued_at, expires_at
		FROM otp_challenges
		WHERE phone_number = $1
	`, phone).Scan(&c.PhoneNumber, &c.CodeHash, &c.IssuedAt, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query otp challenge")
		return nil, fmt.Errorf("failed to query otp challenge: %w", err)
	}
	return &c, nil
}

// Delete removes the challenge for phone, if any.
func (r *otpRepository) Delete(ctx context.Context, phone string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM otp_challenges WHERE phone_number = $1`, phone); err != nil {
		r.logger.Error().Err(err).Msg("failed to delete otp challenge")
		return fmt.Errorf("failed to delete otp challenge: %w", err)
	}
	return nil
}

// Consume deletes the challenge only if its digest still matches, so two
// concurrent verifications of one code cannot both succeed.
func (r *otpRepository) Consume(ctx context.Context, phone, codeHash string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM otp_challenges WHERE phone_number = $1 AND code_hash = $2
	`, phone, codeHash)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to consume otp challenge")
		return false, fmt.Errorf("failed to consume otp challenge: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteExpired removes every challenge whose expiry is before now.
func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM otp_challenges WHERE expires_at < $1`, now)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete expired otp challenges")
		return 0, fmt.Errorf("failed to delete expired otp challenges: %w", err)
	}
	return tag.RowsAffected(), nil
}
