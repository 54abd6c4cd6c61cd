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

var _ repository.CouponRepository = (*couponRepo)(nil)

type couponRepo struct{ pool *pgxpool.Pool }

func NewCouponRepo(pool *pgxpool.Pool) *couponRepo {
	return &couponRepo{pool: pool}
}

const couponColumns = `id, code, discount_type, discount_value, min_purchase, max_uses, used_count, valid_from, valid_until, product_id, is_active, created_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	c := &model.Coupon{}
	err := row.Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinPurchase, &c.MaxUses, &c.UsedCount, &c.ValidFrom, &c.ValidUntil, &c.ProductID, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *couponRepo) Save(ctx context.Context, tx repository.Tx, c *model.Coupon) error {
	const q = `
INSERT INTO coupons (id, code, discount_type, discount_value, min_purchase, max_uses, used_count, valid_from, valid_until, product_id, is_active, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  code=$2, discount_type=$3, discount_value=$4, min_purchase=$5, max_uses=$6, valid_from=$8, valid_until=$9, product_id=$10, is_active=$11;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Code, c.DiscountType, c.DiscountValue, c.MinPurchase, c.MaxUses, c.UsedCount, c.ValidFrom, c.ValidUntil, c.ProductID, c.IsActive, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		metrics.IncDBError("coupon_save")
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *couponRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Coupon, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+couponColumns+` FROM coupons WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanCoupon(row)
}

func (r *couponRepo) FindActiveByCode(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+couponColumns+` FROM coupons WHERE code=$1 AND is_active=TRUE LIMIT 1;`, code)
	if err != nil {
		return nil, err
	}
	return scanCoupon(row)
}

func (r *couponRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Coupon, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC;`)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// IncrementUsage bumps used_count atomically; the WHERE clause keeps the
// count inside max_uses without a read-modify-write round trip.
func (r *couponRepo) IncrementUsage(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	const q = `
UPDATE coupons
   SET used_count = used_count + 1
 WHERE id = $1
   AND (max_uses IS NULL OR used_count < max_uses);`

	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		metrics.IncDBError("coupon_inc_usage")
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

// RecordUsage relies on the unique constraint over order_id: a finalize retry
// inserts nothing the second time.
func (r *couponRepo) RecordUsage(ctx context.Context, tx repository.Tx, u *model.CouponUsage) (bool, error) {
	const q = `
INSERT INTO coupon_usages (id, coupon_id, order_id, customer_email, discount_amount, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (order_id) DO NOTHING;`

	cmd, err := execSQL(ctx, r.pool, tx, q, u.ID, u.CouponID, u.OrderID, u.CustomerEmail, u.DiscountAmount, u.CreatedAt)
	if err != nil {
		metrics.IncDBError("coupon_record_usage")
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *couponRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	cmd, err := execSQL(ctx, r.pool, tx, `DELETE FROM coupons WHERE id=$1;`, id)
	if err != nil {
		metrics.IncDBError("coupon_delete")
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
