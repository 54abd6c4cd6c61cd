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

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct{ pool *pgxpool.Pool }

func NewProductRepo(pool *pgxpool.Pool) *productRepo {
	return &productRepo{pool: pool}
}

const productColumns = `id, name, description, price, original_price, deep_link_scheme, sales_count, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.DeepLinkScheme, &p.SalesCount, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *productRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	const q = `
INSERT INTO products (id, name, description, price, original_price, deep_link_scheme, sales_count, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  name=$2, description=$3, price=$4, original_price=$5, deep_link_scheme=$6, is_active=$8, updated_at=NOW();`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.DeepLinkScheme, p.SalesCount, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		metrics.IncDBError("product_save")
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+productColumns+` FROM products WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanProduct(row)
}

func (r *productRepo) FindActiveByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+productColumns+` FROM products WHERE id=$1 AND is_active=TRUE;`, id)
	if err != nil {
		return nil, err
	}
	return scanProduct(row)
}

func (r *productRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC;`)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// IncrementSalesCount is a single atomic statement so concurrent finalizes
// never lose an update.
func (r *productRepo) IncrementSalesCount(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE products SET sales_count = sales_count + 1, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		metrics.IncDBError("product_inc_sales")
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	cmd, err := execSQL(ctx, r.pool, tx, `DELETE FROM products WHERE id=$1;`, id)
	if err != nil {
		metrics.IncDBError("product_delete")
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
