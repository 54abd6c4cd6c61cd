package repository

import (
	"context"

	"taraz-store/internal/domain/model"
)

type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	SetAuthority(ctx context.Context, tx Tx, id, authority string) error
	// CompleteIfPending transitions pending → completed and stores refID in one
	// conditional statement. Returns false when the order was not pending,
	// which callers treat as a concurrent or repeated finalize.
	CompleteIfPending(ctx context.Context, tx Tx, id, refID string) (bool, error)
	// FailIfPending transitions pending → failed. Returns false when the order
	// was not pending.
	FailIfPending(ctx context.Context, tx Tx, id string) (bool, error)
	ListByStatus(ctx context.Context, tx Tx, status model.OrderStatus, offset, limit int) ([]*model.Order, error)
	CountByStatus(ctx context.Context, tx Tx, status model.OrderStatus) (int64, error)
	// SumCompletedByPeriod totals completed order amounts since the start of
	// the given date_trunc period ("week", "month", "year").
	SumCompletedByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
