package repository

import (
	"context"
	"time"

	"taraz-store/internal/domain/model"
)

type LicenseRepository interface {
	// Insert reports a license_key collision as domain.ErrAlreadyExists
	// without failing the surrounding transaction, so the caller can
	// regenerate and retry inside it.
	Insert(ctx context.Context, tx Tx, l *model.License) error
	FindByKey(ctx context.Context, tx Tx, key string) (*model.License, error)
	FindByOrderID(ctx context.Context, tx Tx, orderID string) (*model.License, error)
	ListAll(ctx context.Context, tx Tx, offset, limit int) ([]*model.License, error)
	// BindDevice sets device_id/activated_at only when device_id is currently
	// NULL, in a single statement. Returns false when the license was already
	// bound; the caller re-reads to distinguish same-device from conflict.
	BindDevice(ctx context.Context, tx Tx, id, deviceID string) (bool, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.LicenseStatus) error
	// ClearDeviceBinding detaches the license from its device (admin reactivation).
	ClearDeviceBinding(ctx context.Context, tx Tx, id string) error
	SetExpiry(ctx context.Context, tx Tx, id string, expiresAt *time.Time) error
}
