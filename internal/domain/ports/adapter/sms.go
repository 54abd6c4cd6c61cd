package adapter

import "context"

// SMSSender dispatches short text messages through an external provider.
// Implementations must fail with an explicit error when the provider is
// unreachable or misconfigured; the OTP flow fails closed on that error.
type SMSSender interface {
	Name() string
	Send(ctx context.Context, phone, message string) error
}
