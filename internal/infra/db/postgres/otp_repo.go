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

var _ repository.OTPRepository = (*otpRepo)(nil)

type otpRepo struct{ pool *pgxpool.Pool }

func NewOTPRepo(pool *pgxpool.Pool) *otpRepo {
	return &otpRepo{pool: pool}
}

func (r *otpRepo) Save(ctx context.Context, tx repository.Tx, c *model.OTPCode) error {
	const q = `
INSERT INTO otp_codes (id, phone, salt, code_hash, expires_at, verified, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Phone, c.Salt, c.CodeHash, c.ExpiresAt, c.Verified, c.CreatedAt)
	if err != nil {
		metrics.IncDBError("otp_save")
		return domain.ErrOperationFailed
	}
	return nil
}

func scanOTP(row pgx.Row) (*model.OTPCode, error) {
	c := &model.OTPCode{}
	err := row.Scan(&c.ID, &c.Phone, &c.Salt, &c.CodeHash, &c.ExpiresAt, &c.Verified, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *otpRepo) Latest(ctx context.Context, tx repository.Tx, phone string) (*model.OTPCode, error) {
	const q = `
SELECT id, phone, salt, code_hash, expires_at, verified, created_at
  FROM otp_codes
 WHERE phone = $1 AND verified = FALSE
 ORDER BY created_at DESC
 LIMIT 1;`

	row, err := pickRow(ctx, r.pool, tx, q, phone)
	if err != nil {
		return nil, err
	}
	return scanOTP(row)
}

// Consume is the single-statement compare-and-delete that makes a code
// single-use: DELETE ... RETURNING hands the record to exactly one caller.
func (r *otpRepo) Consume(ctx context.Context, tx repository.Tx, id, codeHash string) (*model.OTPCode, error) {
	const q = `
DELETE FROM otp_codes
 WHERE id = $1 AND code_hash = $2 AND verified = FALSE
RETURNING id, phone, salt, code_hash, expires_at, verified, created_at;`

	row, err := pickRow(ctx, r.pool, tx, q, id, codeHash)
	if err != nil {
		return nil, err
	}
	return scanOTP(row)
}

func (r *otpRepo) DeleteExpired(ctx context.Context, tx repository.Tx) (int64, error) {
	cmd, err := execSQL(ctx, r.pool, tx, `DELETE FROM otp_codes WHERE expires_at < NOW();`)
	if err != nil {
		metrics.IncDBError("otp_delete_expired")
		return 0, domain.ErrOperationFailed
	}
	return cmd.RowsAffected(), nil
}
