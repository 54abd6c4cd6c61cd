package model

import (
	"fmt"
	"time"

	"taraz-store/internal/domain"

	"github.com/google/uuid"
)

// User is an account keyed by a verified phone number. Email is a stable
// pseudo-address derived from the phone; CredentialHash is rotated on every
// successful OTP login and never reused across sessions.
type User struct {
	ID             string
	Phone          string
	Email          string
	CredentialHash string
	CreatedAt      time.Time
	LastLoginAt    *time.Time
}

// DerivedEmail maps a phone number to its pseudo-email account key.
func DerivedEmail(phone, domainName string) string {
	return fmt.Sprintf("%s@sms.%s", phone, domainName)
}

func NewUser(phone, email string) (*User, error) {
	if !ValidPhone(phone) || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:        uuid.NewString(),
		Phone:     phone,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}

// Session is a minted authentication credential returned after OTP login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
