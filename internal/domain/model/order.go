package model

import (
	"time"

	"taraz-store/internal/domain"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // created; awaiting gateway verification
	OrderStatusCompleted OrderStatus = "completed" // verified OK, license issued
	OrderStatusFailed    OrderStatus = "failed"    // verification failed
	OrderStatusManual    OrderStatus = "manual"    // issued by admin without payment
)

// Order is one purchase attempt. Amounts are in Toman. Authority is the
// gateway session token set after the payment request; RefID is the settlement
// reference set after verification. Completed and failed are terminal.
type Order struct {
	ID             string
	ProductID      string
	CustomerEmail  string
	CustomerPhone  string
	Amount         int64 // final payable after discount
	OriginalAmount int64
	DiscountAmount int64
	CouponID       *string
	Authority      *string
	RefID          *string
	Status         OrderStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewOrder(productID, email, phone string, amount, originalAmount, discountAmount int64, couponID *string) (*Order, error) {
	if productID == "" || email == "" || phone == "" || amount < 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Order{
		ID:             uuid.NewString(),
		ProductID:      productID,
		CustomerEmail:  email,
		CustomerPhone:  phone,
		Amount:         amount,
		OriginalAmount: originalAmount,
		DiscountAmount: discountAmount,
		CouponID:       couponID,
		Status:         OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsTerminal reports whether the order left the pending state; a terminal
// order can no longer go through the payment flow.
func (o *Order) IsTerminal() bool {
	return o.Status != OrderStatusPending
}
