package otp

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper periodically evicts expired challenges, standing in for a
// store-level TTL index. Verify still re-checks expiry on its own.
type Sweeper struct {
	store    Store
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSweeper creates a sweeper that runs every interval (default 1m).
func NewSweeper(store Store, interval time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		logger:   logger.With().Str("component", "otp-sweeper").Logger(),
	}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("OTP sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("OTP sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce deletes expired challenges and returns how many were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to delete expired OTP challenges")
		return 0
	}
	if n > 0 {
		s.logger.Debug().Int64("deleted", n).Msg("expired OTP challenges deleted")
	}
	return n
}
