package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/surgassist/records-api/internal/core/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{
		ID:       "acc-1",
		Username: "alice",
		Role:     domain.RoleTeamLeader,
	}
}

func TestTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); err == nil {
		t.Fatalf("expected error for empty signing key")
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := svc.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.AccountID != "acc-1" || claims.Username != "alice" || claims.Role != domain.RoleTeamLeader {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	issuedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Still valid just before expiry.
	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("verify before expiry: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestTokenService_RejectsTampering(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := svc.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := map[string]string{
		"malformed":       "not-a-token",
		"empty":           "",
		"truncated":       token[:len(token)-10],
		"signature swap":  token[:strings.LastIndex(token, ".")] + ".AAAA",
		"wrong key":       reSign(t, token),
		"payload flipped": flipPayload(token),
	}
	for name, bad := range cases {
		if _, err := svc.Verify(bad); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

// reSign issues the same claims under a different key.
func reSign(t *testing.T, _ string) string {
	t.Helper()
	other, err := NewTokenService("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	token, err := other.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

// flipPayload alters one byte of the payload segment, invalidating the signature.
func flipPayload(token string) string {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 || len(parts[1]) == 0 {
		return token
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	return parts[0] + "." + string(payload) + "." + parts[2]
}

func TestTokenService_RejectsUnknownRoleClaim(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	account := testAccount()
	account.Role = domain.Role("superuser")
	token, err := svc.Issue(account)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown role, got %v", err)
	}
}
