package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	phonePattern = regexp.MustCompile(`^09\d{9}$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

// ValidPhone reports whether s is a local mobile number (09xxxxxxxxx).
func ValidPhone(s string) bool { return phonePattern.MatchString(s) }

// ValidOTPCode reports whether s is a 6-digit numeric code.
func ValidOTPCode(s string) bool { return codePattern.MatchString(s) }

// HashOTP returns the hex sha256 digest of the per-record salt followed by
// the code. The plaintext code is never persisted.
func HashOTP(code, salt string) string {
	sum := sha256.Sum256([]byte(salt + code))
	return hex.EncodeToString(sum[:])
}

// OTPCode is an ephemeral one-time login code. Only a salted digest of the
// code is ever persisted; the record is deleted on successful verification or
// on expiry detection.
type OTPCode struct {
	ID        string
	Phone     string
	Salt      string
	CodeHash  string
	ExpiresAt time.Time
	Verified  bool
	CreatedAt time.Time
}

func NewOTPCode(phone, code string, ttl time.Duration) (*OTPCode, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &OTPCode{
		ID:        uuid.NewString(),
		Phone:     phone,
		Salt:      hex.EncodeToString(salt),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	c.CodeHash = HashOTP(code, c.Salt)
	return c, nil
}
