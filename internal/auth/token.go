package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/libretto/libretto/internal/model"
)

// Token errors.
var (
	// ErrNoSecret indicates the signing secret is not configured.
	// This is a startup-time failure, never a per-request one.
	ErrNoSecret = errors.New("token signing secret is not configured")

	// ErrInvalidToken covers malformed, badly signed, and expired tokens.
	// Callers must not be able to distinguish which.
	ErrInvalidToken = errors.New("invalid token")
)

// claims is the JWT payload carrying the principal identity.
type claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// TokenService issues and verifies signed, time-bound identity tokens.
// Verification is stateless: validity is determined purely by the HMAC
// signature and the embedded expiry, so no session store is needed. The
// trade-off is that tokens cannot be revoked before they expire.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with the given secret.
// An empty secret is a configuration error and must abort startup.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token carrying the principal's identity, expiring ttl from
// now. Expiry is absolute from issuance; there is no refresh.
func (s *TokenService) Issue(p *model.Principal) (string, error) {
	now := s.now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: p.ID,
		Email:  p.Email,
		Name:   p.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning the embedded principal.
// Any failure (malformed, wrong signature, expired) yields ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*model.Principal, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &model.Principal{
		ID:    parsed.UserID,
		Email: parsed.Email,
		Name:  parsed.Name,
	}, nil
}
