package ports

import "github.com/surgassist/records-api/internal/core/domain"

// TokenClaims is the verified identity carried by a session token.
type TokenClaims struct {
	AccountID string
	Username  string
	Role      domain.Role
}

// TokenIssuer mints and verifies signed, time-bounded session tokens.
//
// Tokens are stateless: claims are authoritative until natural expiry, and
// there is no server-side revocation. A role change or administrative reset
// does not invalidate tokens already in the wild.
type TokenIssuer interface {
	Issue(account *domain.Account) (string, error)
	// Verify returns the claims, or domain.ErrInvalidToken for malformed,
	// badly signed, and expired tokens alike.
	Verify(token string) (*TokenClaims, error)
}
