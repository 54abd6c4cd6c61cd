package repository

import (
	"context"

	"taraz-store/internal/domain/model"
)

type CouponRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Coupon) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Coupon, error)
	// FindActiveByCode looks up an active coupon by its normalized code.
	FindActiveByCode(ctx context.Context, tx Tx, code string) (*model.Coupon, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Coupon, error)
	// IncrementUsage bumps used_count atomically, bounded by max_uses when set.
	// Returns false when the cap was already reached.
	IncrementUsage(ctx context.Context, tx Tx, id string) (bool, error)
	// RecordUsage inserts the per-order usage row; the unique constraint on
	// order_id makes duplicate inserts a no-op. Returns false on duplicate.
	RecordUsage(ctx context.Context, tx Tx, u *model.CouponUsage) (bool, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
