package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflicting state")
	ErrRateLimited     = errors.New("too many requests")
	ErrUpstream        = errors.New("upstream provider failure")

	// Entity-specific lookup failures. Each wraps ErrNotFound so callers can
	// still match the generic case; the HTTP layer localizes them separately.
	ErrOrderNotFound   = fmt.Errorf("order: %w", ErrNotFound)
	ErrLicenseNotFound = fmt.Errorf("license: %w", ErrNotFound)

	// Order lifecycle
	ErrOrderFinalized = errors.New("order already finalized")
	ErrPaymentFailed  = errors.New("payment verification failed")
	ErrUserCancelled  = errors.New("payment cancelled by user")

	// OTP
	ErrOTPInvalid = errors.New("otp code invalid")
	ErrOTPExpired = errors.New("otp code expired")

	// License activation
	ErrLicenseRevoked = errors.New("license revoked")
	ErrLicenseExpired = errors.New("license expired")
	ErrDeviceMismatch = errors.New("license activated on another device")

	// Persistence errors (infra-level, surfaced through repositories)
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context for query")
)
