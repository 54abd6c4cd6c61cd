package adapter

import (
	"context"

	"taraz-store/internal/domain/model"
)

// SessionIssuer mints an authenticated session for a phone identity that has
// just been verified. Each call rotates the account credential to a fresh
// unpredictable value; nothing derivable from the phone number alone grants
// access.
type SessionIssuer interface {
	CreateOrRotate(ctx context.Context, phone string) (*model.Session, error)
}
