package model

import (
	"strings"
	"time"

	"taraz-store/internal/domain"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code. Codes are case-insensitive and stored upper-cased.
// ProductID, when set, scopes the coupon to a single product.
type Coupon struct {
	ID            string
	Code          string
	DiscountType  DiscountType
	DiscountValue int64
	MinPurchase   *int64
	MaxUses       *int64
	UsedCount     int64
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	ProductID     *string
	IsActive      bool
	CreatedAt     time.Time
}

// NewCoupon validates authoring-time invariants: percentage values must be in
// (0,100], fixed values must be positive.
func NewCoupon(id, code string, dt DiscountType, value int64) (*Coupon, error) {
	if id == "" {
		id = uuid.NewString()
	}
	code = NormalizeCouponCode(code)
	if code == "" || len(code) > 50 {
		return nil, domain.ErrInvalidArgument
	}
	switch dt {
	case DiscountPercentage:
		if value <= 0 || value > 100 {
			return nil, domain.ErrInvalidArgument
		}
	case DiscountFixed:
		if value <= 0 {
			return nil, domain.ErrInvalidArgument
		}
	default:
		return nil, domain.ErrInvalidArgument
	}
	return &Coupon{
		ID:            id,
		Code:          code,
		DiscountType:  dt,
		DiscountValue: value,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}, nil
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponUsage records one redeemed coupon per order. The unique constraint on
// OrderID is what makes finalize retries harmless.
type CouponUsage struct {
	ID             string
	CouponID       string
	OrderID        string
	CustomerEmail  string
	DiscountAmount int64
	CreatedAt      time.Time
}
