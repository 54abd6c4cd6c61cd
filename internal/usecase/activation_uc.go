package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/repository"
	"taraz-store/internal/infra/metrics"
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// Activation is what the desktop/mobile client receives after a successful
// validate call.
type Activation struct {
	License *model.License
	Product *model.Product
}

type ActivationUseCase interface {
	// Validate checks key against deviceID and binds the license to the
	// device on first activation. First writer wins; a concurrent attempt
	// from another device observes domain.ErrDeviceMismatch.
	Validate(ctx context.Context, licenseKey, deviceID string) (*Activation, error)
}

type activationUC struct {
	licenses repository.LicenseRepository
	products repository.ProductRepository
	log      *zerolog.Logger
}

func NewActivationUseCase(licenses repository.LicenseRepository, products repository.ProductRepository, logger *zerolog.Logger) *activationUC {
	return &activationUC{licenses: licenses, products: products, log: logger}
}

func (u *activationUC) Validate(ctx context.Context, licenseKey, deviceID string) (*Activation, error) {
	if licenseKey == "" {
		return nil, fmt.Errorf("license_key: %w", domain.ErrInvalidArgument)
	}
	if deviceID == "" {
		return nil, fmt.Errorf("device_id: %w", domain.ErrInvalidArgument)
	}

	license, err := u.licenses.FindByKey(ctx, nil, licenseKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncActivation("not_found")
			return nil, domain.ErrLicenseNotFound
		}
		return nil, err
	}

	if err := u.check(license, deviceID); err != nil {
		return nil, err
	}

	if license.DeviceID == nil {
		bound, err := u.licenses.BindDevice(ctx, nil, license.ID, deviceID)
		if err != nil {
			return nil, err
		}
		if bound {
			now := time.Now()
			license.DeviceID = &deviceID
			license.ActivatedAt = &now
			license.Status = model.LicenseStatusActive
			metrics.IncActivation("bound")
			u.log.Info().Str("license_id", license.ID).Msg("license bound to device")
		} else {
			// lost the first-write race; re-read and re-check the binding
			license, err = u.licenses.FindByKey(ctx, nil, licenseKey)
			if err != nil {
				return nil, err
			}
			if err := u.check(license, deviceID); err != nil {
				return nil, err
			}
		}
	}

	product, err := u.products.FindByID(ctx, nil, license.ProductID)
	if err != nil {
		return nil, err
	}
	metrics.IncActivation("valid")
	return &Activation{License: license, Product: product}, nil
}

// check applies the rejection rules in fixed order: revoked → expired →
// wrong device. Each failure is a distinct error because client UX branches
// on the cause.
func (u *activationUC) check(l *model.License, deviceID string) error {
	if l.Status == model.LicenseStatusRevoked {
		metrics.IncActivation("revoked")
		return domain.ErrLicenseRevoked
	}
	if l.IsExpired(time.Now()) {
		metrics.IncActivation("expired")
		return domain.ErrLicenseExpired
	}
	if l.DeviceID != nil && !l.BoundTo(deviceID) {
		metrics.IncActivation("device_mismatch")
		return domain.ErrDeviceMismatch
	}
	return nil
}
