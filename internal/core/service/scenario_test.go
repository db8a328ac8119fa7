package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/surgassist/records-api/internal/core/domain"
)

// TestLockoutThenResetThenLogin walks the full recovery path: an account gets
// locked by repeated failures, self-services a reset, and logs in with the new
// password while the old one no longer works.
func TestLockoutThenResetThenLogin(t *testing.T) {
	f := newAuthFixture(t, 5, 15*time.Minute)
	f.seedAccount(t, "alice", "OldPass11")

	mailer := &stubMailer{}
	reset := NewResetService(
		f.repo, fakeHasher{}, domain.PasswordPolicy{MinLength: 8},
		domain.AllRoles, time.Hour, mailer, &stubThrottle{}, f.audit, zerolog.Nop(),
		"https://records.example",
	)
	reset.now = f.svc.now

	// Five wrong passwords; the fifth response already reports locked.
	for i := 0; i < 4; i++ {
		_, _ = f.svc.Login(context.Background(), "alice", "wrong")
	}
	if _, err := f.svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("fifth attempt: expected locked, got %v", err)
	}

	// A sixth attempt with the correct password is still rejected, no token.
	if result, err := f.svc.Login(context.Background(), "alice", "OldPass11"); !errors.Is(err, domain.ErrAccountLocked) || result != nil {
		t.Fatalf("locked login leaked a result: %v / %v", result, err)
	}

	// Reset while locked.
	if err := reset.RequestReset(context.Background(), "alice"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	token := tokenFromMailBody(mailer.body)
	if err := reset.RedeemReset(context.Background(), token, "NewPass99"); err != nil {
		t.Fatalf("redeem reset: %v", err)
	}

	// Redemption is an implicit unlock: the new password works immediately.
	result, err := f.svc.Login(context.Background(), "alice", "NewPass99")
	if err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected session token")
	}

	// The old password now fails as a plain bad credential, not as locked.
	if _, err := f.svc.Login(context.Background(), "alice", "OldPass11"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for old password, got %v", err)
	}
}
