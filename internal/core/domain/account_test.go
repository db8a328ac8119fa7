package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	for _, role := range AllRoles {
		parsed, err := ParseRole(string(role))
		if err != nil || parsed != role {
			t.Fatalf("round trip for %q failed: %v", role, err)
		}
	}

	for _, bad := range []string{"", "superuser", "Admin", "ADMIN"} {
		if _, err := ParseRole(bad); !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("expected ErrInvalidRole for %q, got %v", bad, err)
		}
	}
}

func TestAccount_LockoutState(t *testing.T) {
	until := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	account := &Account{FailedAttempts: 4, LockedUntil: &until}

	state := account.LockoutState()
	if state.FailedAttempts != 4 || state.LockedUntil == nil || !state.LockedUntil.Equal(until) {
		t.Fatalf("unexpected state: %+v", state)
	}
}
