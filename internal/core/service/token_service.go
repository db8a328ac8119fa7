package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService mints and verifies HS256-signed session tokens.
//
// Tokens are stateless bearer credentials: any instance sharing the signing
// key can verify a token issued by any other, and there is no revocation
// before natural expiry. Integrators must size the TTL accordingly.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenService builds a TokenService. An empty secret is a configuration
// error: there is no safe default key, so the caller must refuse to start.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing key is not configured")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token carrying the account's id, username, and role, expiring
// a fixed TTL from issuance.
func (s *TokenService) Issue(account *domain.Account) (string, error) {
	now := s.now().UTC()
	claims := sessionClaims{
		Username: account.Username,
		Role:     string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token. Malformed tokens, bad signatures, and
// expired tokens all collapse to domain.ErrInvalidToken so callers cannot
// leak which check failed.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{
		AccountID: claims.Subject,
		Username:  claims.Username,
		Role:      role,
	}, nil
}
