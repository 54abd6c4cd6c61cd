package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/repository"
	"taraz-store/internal/infra/metrics"
)

var _ repository.LicenseRepository = (*licenseRepo)(nil)

type licenseRepo struct{ pool *pgxpool.Pool }

func NewLicenseRepo(pool *pgxpool.Pool) *licenseRepo {
	return &licenseRepo{pool: pool}
}

const licenseColumns = `id, license_key, order_id, product_id, status, device_id, activated_at, expires_at, created_at`

func scanLicense(row pgx.Row) (*model.License, error) {
	l := &model.License{}
	err := row.Scan(&l.ID, &l.LicenseKey, &l.OrderID, &l.ProductID, &l.Status, &l.DeviceID, &l.ActivatedAt, &l.ExpiresAt, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return l, nil
}

// Insert reports a duplicate key as domain.ErrAlreadyExists. The conflict is
// absorbed by DO NOTHING so the surrounding transaction stays usable and the
// caller can retry with a fresh key.
func (r *licenseRepo) Insert(ctx context.Context, tx repository.Tx, l *model.License) error {
	const q = `
INSERT INTO licenses (id, license_key, order_id, product_id, status, device_id, activated_at, expires_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (license_key) DO NOTHING;`

	cmd, err := execSQL(ctx, r.pool, tx, q, l.ID, l.LicenseKey, l.OrderID, l.ProductID, l.Status, l.DeviceID, l.ActivatedAt, l.ExpiresAt, l.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		metrics.IncDBError("license_insert")
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *licenseRepo) FindByKey(ctx context.Context, tx repository.Tx, key string) (*model.License, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+licenseColumns+` FROM licenses WHERE license_key=$1 LIMIT 1;`, key)
	if err != nil {
		return nil, err
	}
	return scanLicense(row)
}

func (r *licenseRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.License, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+licenseColumns+` FROM licenses WHERE order_id=$1 LIMIT 1;`, orderID)
	if err != nil {
		return nil, err
	}
	return scanLicense(row)
}

func (r *licenseRepo) ListAll(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.License, error) {
	const q = `SELECT ` + licenseColumns + ` FROM licenses ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.License
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// BindDevice closes the first-activation race: the device is written only when
// device_id is still NULL, in one round trip. The loser sees zero rows.
func (r *licenseRepo) BindDevice(ctx context.Context, tx repository.Tx, id, deviceID string) (bool, error) {
	const q = `
UPDATE licenses
   SET device_id = $2,
       activated_at = NOW(),
       status = 'active'
 WHERE id = $1
   AND device_id IS NULL;`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, deviceID)
	if err != nil {
		metrics.IncDBError("license_bind_device")
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *licenseRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.LicenseStatus) error {
	cmd, err := execSQL(ctx, r.pool, tx, `UPDATE licenses SET status=$2 WHERE id=$1;`, id, status)
	if err != nil {
		metrics.IncDBError("license_update_status")
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *licenseRepo) ClearDeviceBinding(ctx context.Context, tx repository.Tx, id string) error {
	cmd, err := execSQL(ctx, r.pool, tx, `UPDATE licenses SET device_id=NULL, activated_at=NULL WHERE id=$1;`, id)
	if err != nil {
		metrics.IncDBError("license_clear_binding")
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *licenseRepo) SetExpiry(ctx context.Context, tx repository.Tx, id string, expiresAt *time.Time) error {
	cmd, err := execSQL(ctx, r.pool, tx, `UPDATE licenses SET expires_at=$2 WHERE id=$1;`, id, expiresAt)
	if err != nil {
		metrics.IncDBError("license_set_expiry")
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
