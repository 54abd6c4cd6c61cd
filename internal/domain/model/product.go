package model

import (
	"time"

	"taraz-store/internal/domain"

	"github.com/google/uuid"
)

// Product is a purchasable software product. Prices are stored in Toman
// (integer, no minor unit); the gateway layer converts to Rial.
type Product struct {
	ID             string
	Name           string
	Description    string
	Price          int64
	OriginalPrice  *int64 // pre-discount price shown on the storefront, optional
	DeepLinkScheme *string
	SalesCount     int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewProduct(id, name, description string, price int64) (*Product, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" || price < 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
