package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/repository"
)

// LicenseAdminUseCase is the back-office surface over licenses: listing,
// revocation, reactivation, expiry extension and manual issuance.
type LicenseAdminUseCase struct {
	licenses repository.LicenseRepository
	orders   repository.OrderRepository
	products repository.ProductRepository
	log      *zerolog.Logger
}

func NewLicenseAdminUseCase(
	licenses repository.LicenseRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	logger *zerolog.Logger,
) *LicenseAdminUseCase {
	return &LicenseAdminUseCase{licenses: licenses, orders: orders, products: products, log: logger}
}

func (uc *LicenseAdminUseCase) List(ctx context.Context, offset, limit int) ([]*model.License, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.licenses.ListAll(ctx, nil, offset, limit)
}

func (uc *LicenseAdminUseCase) Revoke(ctx context.Context, id string) error {
	return uc.licenses.UpdateStatus(ctx, nil, id, model.LicenseStatusRevoked)
}

// Reactivate restores a revoked license and clears its device binding so the
// customer can activate again on a (possibly new) machine.
func (uc *LicenseAdminUseCase) Reactivate(ctx context.Context, id string) error {
	if err := uc.licenses.UpdateStatus(ctx, nil, id, model.LicenseStatusActive); err != nil {
		return err
	}
	return uc.licenses.ClearDeviceBinding(ctx, nil, id)
}

func (uc *LicenseAdminUseCase) Extend(ctx context.Context, id string, until time.Time) error {
	if until.Before(time.Now()) {
		return fmt.Errorf("expires_at in the past: %w", domain.ErrInvalidArgument)
	}
	return uc.licenses.SetExpiry(ctx, nil, id, &until)
}

// IssueManual creates a zero-amount order with status "manual" and a license
// for it, bypassing the payment pipeline. Used for support and promo grants.
func (uc *LicenseAdminUseCase) IssueManual(ctx context.Context, productID, customerEmail, customerPhone string, expiresAt *time.Time) (*model.License, error) {
	product, err := uc.products.FindByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}

	order, err := model.NewOrder(product.ID, customerEmail, customerPhone, 0, product.Price, 0, nil)
	if err != nil {
		return nil, err
	}
	order.Status = model.OrderStatusManual
	if err := uc.orders.Save(ctx, nil, order); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		key, err := generateLicenseKey()
		if err != nil {
			return nil, err
		}
		l := model.NewLicense(key, order.ID, product.ID, expiresAt)
		if err := uc.licenses.Insert(ctx, nil, l); err != nil {
			if err == domain.ErrAlreadyExists {
				continue
			}
			return nil, err
		}
		uc.log.Info().Str("license_id", l.ID).Str("order_id", order.ID).Msg("manual license issued")
		return l, nil
	}
	return nil, fmt.Errorf("license key collision: %w", domain.ErrOperationFailed)
}
