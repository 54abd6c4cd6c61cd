package repository

import (
	"context"

	"taraz-store/internal/domain/model"
)

type UserRepository interface {
	// Upsert inserts the user or, when the phone already exists, rotates the
	// credential hash and bumps last_login_at. The stored row is returned.
	Upsert(ctx context.Context, tx Tx, u *model.User) (*model.User, error)
	FindByPhone(ctx context.Context, tx Tx, phone string) (*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int64, error)
}
