package usecase

import (
	"context"

	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/repository"
)

// CatalogUseCase manages the storefront catalog: products and coupons.
// Thin CRUD over the repositories; authoring-time invariants live on the models.
type CatalogUseCase struct {
	products repository.ProductRepository
	coupons  repository.CouponRepository
}

func NewCatalogUseCase(products repository.ProductRepository, coupons repository.CouponRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products, coupons: coupons}
}

func (uc *CatalogUseCase) SaveProduct(ctx context.Context, p *model.Product) error {
	return uc.products.Save(ctx, nil, p)
}

func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.products.FindByID(ctx, nil, id)
}

func (uc *CatalogUseCase) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return uc.products.ListAll(ctx, nil)
}

func (uc *CatalogUseCase) DeleteProduct(ctx context.Context, id string) error {
	return uc.products.Delete(ctx, nil, id)
}

func (uc *CatalogUseCase) SaveCoupon(ctx context.Context, c *model.Coupon) error {
	return uc.coupons.Save(ctx, nil, c)
}

func (uc *CatalogUseCase) ListCoupons(ctx context.Context) ([]*model.Coupon, error) {
	return uc.coupons.ListAll(ctx, nil)
}

func (uc *CatalogUseCase) DeleteCoupon(ctx context.Context, id string) error {
	return uc.coupons.Delete(ctx, nil, id)
}
