package repository

import (
	"context"

	"taraz-store/internal/domain/model"
)

type ProductRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Product) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	// FindActiveByID returns the product only when it is active.
	FindActiveByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Product, error)
	// IncrementSalesCount adds one to sales_count in a single atomic statement.
	IncrementSalesCount(ctx context.Context, tx Tx, id string) error
	Delete(ctx context.Context, tx Tx, id string) error
}
