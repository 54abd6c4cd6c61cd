package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"taraz-store/internal/domain/ports/repository"
)

// OTPCleanupWorker periodically deletes stale one-time codes. Codes are
// consumed on verification, so only abandoned requests ever accumulate.
type OTPCleanupWorker struct {
	interval time.Duration
	codes    repository.OTPRepository
	log      *zerolog.Logger
}

func NewOTPCleanupWorker(interval time.Duration, codes repository.OTPRepository, logger *zerolog.Logger) *OTPCleanupWorker {
	compLog := logger.With().Str("component", "OTPCleanupWorker").Logger()
	return &OTPCleanupWorker{
		interval: interval,
		codes:    codes,
		log:      &compLog,
	}
}

func (w *OTPCleanupWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting OTP cleanup worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping OTP cleanup worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.codes.DeleteExpired(ctx, nil)
			if err != nil {
				w.log.Error().Err(err).Msg("otp cleanup error")
				continue
			}
			if n > 0 {
				w.log.Info().Int64("count", n).Msg("expired otp codes deleted")
			}
		}
	}
}
