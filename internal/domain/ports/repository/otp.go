package repository

import (
	"context"

	"taraz-store/internal/domain/model"
)

type OTPRepository interface {
	Save(ctx context.Context, tx Tx, c *model.OTPCode) error
	// Latest returns the newest unverified code for phone, so the caller can
	// read its salt before computing the candidate digest.
	Latest(ctx context.Context, tx Tx, phone string) (*model.OTPCode, error)
	// Consume atomically deletes the record matching id + codeHash and
	// returns it. Exactly one of N concurrent calls with the same code
	// succeeds; the rest get domain.ErrNotFound. The returned record may
	// already be expired; the caller decides what that means.
	Consume(ctx context.Context, tx Tx, id, codeHash string) (*model.OTPCode, error)
	// DeleteExpired removes stale codes; driven by the cleanup worker.
	DeleteExpired(ctx context.Context, tx Tx) (int64, error)
}
