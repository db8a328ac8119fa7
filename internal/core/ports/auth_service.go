package ports

import (
	"context"

	"github.com/surgassist/records-api/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	AccountID string
	Username  string
	Role      domain.Role
	Token     string
}

// AuthService implements credential verification with brute-force lockout.
type AuthService interface {
	// Login verifies the credentials and returns a signed session token.
	// Returns domain.ErrInvalidCredentials on a bad username or password
	// (never distinguishing which), and a *domain.LockedError while the
	// lockout window is open.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// ResetService implements the two-phase self-service password reset.
type ResetService interface {
	// RequestReset starts a reset for the named account. It returns nil for
	// nonexistent, ineligible, and addressless accounts exactly as for
	// eligible ones; only the side effects differ.
	RequestReset(ctx context.Context, username string) error

	// RedeemReset exchanges a plaintext reset token for a new password.
	// Returns domain.ErrInvalidResetToken for wrong, expired, and unknown
	// tokens alike, and a domain.ErrPasswordPolicy wrap when the new password
	// fails the complexity rules.
	RedeemReset(ctx context.Context, token, newPassword string) error
}

// CreateAccountInput carries the fields for administrative provisioning.
type CreateAccountInput struct {
	Username    string
	DisplayName string
	Email       string
	Password    string
	Role        domain.Role
}

// AccountService implements administrative account management.
type AccountService interface {
	Create(ctx context.Context, actor string, input CreateAccountInput) (*domain.Account, error)

	// ChangePassword replaces the target account's password. The change also
	// clears any lockout: a successful credential replacement is an unlock.
	ChangePassword(ctx context.Context, actor, accountID, newPassword string) error
}
