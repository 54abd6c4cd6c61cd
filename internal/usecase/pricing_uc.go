package usecase

import (
	"time"

	"taraz-store/internal/domain/model"
)

// Quote is the outcome of pricing a product against an optional coupon.
type Quote struct {
	FinalAmount    int64
	DiscountAmount int64
	CouponID       *string
}

// PriceQuote computes the chargeable amount for product with an optional
// coupon. A coupon that fails any check is ignored, never an error: a bad
// code must not block a purchase.
//
// Checks run in fixed precedence and short-circuit on the first failure:
// active flag → validity window → usage cap → minimum purchase → product scope.
func PriceQuote(product *model.Product, coupon *model.Coupon, now time.Time) Quote {
	full := Quote{FinalAmount: product.Price}
	if coupon == nil || !coupon.IsActive {
		return full
	}
	if coupon.ValidFrom != nil && coupon.ValidFrom.After(now) {
		return full
	}
	if coupon.ValidUntil != nil && coupon.ValidUntil.Before(now) {
		return full
	}
	if coupon.MaxUses != nil && coupon.UsedCount >= *coupon.MaxUses {
		return full
	}
	if coupon.MinPurchase != nil && product.Price < *coupon.MinPurchase {
		return full
	}
	if coupon.ProductID != nil && *coupon.ProductID != product.ID {
		return full
	}

	var discount int64
	switch coupon.DiscountType {
	case model.DiscountPercentage:
		value := coupon.DiscountValue
		// authored coupons guarantee (0,100]; re-check here anyway
		if value <= 0 || value > 100 {
			return full
		}
		discount = product.Price * value / 100
	case model.DiscountFixed:
		discount = coupon.DiscountValue
		if discount > product.Price {
			discount = product.Price
		}
	default:
		return full
	}
	if discount <= 0 {
		return full
	}

	id := coupon.ID
	return Quote{
		FinalAmount:    product.Price - discount,
		DiscountAmount: discount,
		CouponID:       &id,
	}
}
