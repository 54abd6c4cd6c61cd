package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/adapter"
	"taraz-store/internal/domain/ports/repository"
)

var _ adapter.SessionIssuer = (*SessionManager)(nil)

// SessionManager upserts the phone's pseudo-account and mints an HS256
// session token. Every issuance rotates the account credential, so only the
// most recent OTP-verified login holds a valid secret.
type SessionManager struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	domain string
}

func NewSessionManager(users repository.UserRepository, secret string, ttl time.Duration, accountDomain string) *SessionManager {
	return &SessionManager{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		domain: accountDomain,
	}
}

type sessionClaims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

func (m *SessionManager) CreateOrRotate(ctx context.Context, phone string) (*model.Session, error) {
	credential, err := randomCredential()
	if err != nil {
		return nil, fmt.Errorf("failed to generate credential: %w", err)
	}
	sum := sha256.Sum256([]byte(credential))

	user, err := model.NewUser(phone, model.DerivedEmail(phone, m.domain))
	if err != nil {
		return nil, err
	}
	user.CredentialHash = hex.EncodeToString(sum[:])

	saved, err := m.users.Upsert(ctx, nil, user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := sessionClaims{
		Phone: saved.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   saved.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &model.Session{Token: signed, ExpiresAt: expiresAt, User: saved}, nil
}

// Parse validates a session token and returns its claims.
func (m *SessionManager) Parse(token string) (string, string, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, claims.Phone, nil
}

func randomCredential() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
