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

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

const userColumns = `id, phone, email, credential_hash, created_at, last_login_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Phone, &u.Email, &u.CredentialHash, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return u, nil
}

// Upsert keys on phone: a returning caller rotates the credential and bumps
// last_login_at in the same statement, a new caller inserts the account row.
func (r *userRepo) Upsert(ctx context.Context, tx repository.Tx, u *model.User) (*model.User, error) {
	const q = `
INSERT INTO users (id, phone, email, credential_hash, created_at, last_login_at)
VALUES ($1,$2,$3,$4,$5,NOW())
ON CONFLICT (phone) DO UPDATE SET
  credential_hash = EXCLUDED.credential_hash,
  last_login_at = NOW()
RETURNING ` + userColumns + `;`

	row, err := pickRow(ctx, r.pool, tx, q, u.ID, u.Phone, u.Email, u.CredentialHash, u.CreatedAt)
	if err != nil {
		return nil, err
	}
	stored, err := scanUser(row)
	if err != nil {
		metrics.IncDBError("user_upsert")
		return nil, err
	}
	return stored, nil
}

func (r *userRepo) FindByPhone(ctx context.Context, tx repository.Tx, phone string) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE phone=$1;`, phone)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) CountUsers(ctx context.Context, tx repository.Tx) (int64, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
