package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/repository"
	"taraz-store/internal/infra/metrics"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, product_id, customer_email, customer_phone, amount, original_amount, discount_amount, coupon_id, authority, ref_id, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	err := row.Scan(&o.ID, &o.ProductID, &o.CustomerEmail, &o.CustomerPhone, &o.Amount, &o.OriginalAmount, &o.DiscountAmount, &o.CouponID, &o.Authority, &o.RefID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (id, product_id, customer_email, customer_phone, amount, original_amount, discount_amount, coupon_id, authority, ref_id, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  authority=$9, ref_id=$10, status=$11, updated_at=NOW();`

	_, err := execSQL(ctx, r.pool, tx, q, o.ID, o.ProductID, o.CustomerEmail, o.CustomerPhone, o.Amount, o.OriginalAmount, o.DiscountAmount, o.CouponID, o.Authority, o.RefID, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		metrics.IncDBError("order_save")
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) SetAuthority(ctx context.Context, tx repository.Tx, id, authority string) error {
	const q = `UPDATE orders SET authority=$2, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, authority)
	if err != nil {
		metrics.IncDBError("order_set_authority")
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CompleteIfPending performs the pending→completed transition conditionally so
// replayed callbacks and concurrent finalizes cannot complete an order twice.
func (r *orderRepo) CompleteIfPending(ctx context.Context, tx repository.Tx, id, refID string) (bool, error) {
	const q = `
UPDATE orders
   SET status = 'completed',
       ref_id = $2,
       updated_at = NOW()
 WHERE id = $1
   AND status = 'pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, refID)
	if err != nil {
		metrics.IncDBError("order_complete")
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *orderRepo) FailIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	const q = `UPDATE orders SET status='failed', updated_at=NOW() WHERE id=$1 AND status='pending';`
	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		metrics.IncDBError("order_fail")
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *orderRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.OrderStatus, offset, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 ORDER BY created_at DESC OFFSET $2 LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, status, offset, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *orderRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.OrderStatus) (int64, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM orders WHERE status=$1;`, status)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *orderRepo) SumCompletedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM orders WHERE status='completed' AND updated_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}
