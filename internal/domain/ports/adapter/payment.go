package adapter

import "context"

// PaymentGateway is the hex port for payment providers. Amounts are in Rial
// (the provider's minor unit); callers convert from the stored Toman price.
type PaymentGateway interface {
	Name() string

	// RequestPayment initiates a payment intent and returns the provider
	// authority token and a redirect URL for the customer.
	RequestPayment(ctx context.Context, amountIRR int64, description, callbackURL string, meta map[string]interface{}) (authority string, payURL string, err error)

	// VerifyPayment verifies a payment given the authority and expected amount.
	// A provider response meaning "already verified" is treated as success so
	// that duplicate callback delivery stays idempotent.
	VerifyPayment(ctx context.Context, authority string, amountIRR int64) (refID string, err error)
}
