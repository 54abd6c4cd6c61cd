package model

import (
	"time"

	"github.com/google/uuid"
)

type LicenseStatus string

const (
	LicenseStatusActive  LicenseStatus = "active"
	LicenseStatusRevoked LicenseStatus = "revoked"
	// expired is derived from ExpiresAt, never stored
)

// License is the right to run one product on one device. DeviceID is written
// at most once, by the first successful activation.
type License struct {
	ID          string
	LicenseKey  string
	OrderID     string
	ProductID   string
	Status      LicenseStatus
	DeviceID    *string
	ActivatedAt *time.Time
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

func NewLicense(key, orderID, productID string, expiresAt *time.Time) *License {
	return &License{
		ID:         uuid.NewString(),
		LicenseKey: key,
		OrderID:    orderID,
		ProductID:  productID,
		Status:     LicenseStatusActive,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now(),
	}
}

func (l *License) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

func (l *License) BoundTo(deviceID string) bool {
	return l.DeviceID != nil && *l.DeviceID == deviceID
}
