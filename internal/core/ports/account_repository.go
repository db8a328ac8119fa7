package ports

import (
	"context"
	"time"

	"github.com/surgassist/records-api/internal/core/domain"
)

// AccountRepository defines the persistence contract for accounts.
//
// Every mutation must be atomic with respect to concurrent requests for the
// same account: two racing failed logins may not read the same pre-increment
// counter, and a reset redemption may not be partially undone by a concurrent
// login write.
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// RecordFailedAttempt atomically increments the failure counter and
	// returns the post-increment value.
	RecordFailedAttempt(ctx context.Context, id string) (int, error)

	// SetLockout marks the account locked until the given instant.
	SetLockout(ctx context.Context, id string, until time.Time) error

	// ResetLoginState zeroes the failure counter and clears any lockout.
	ResetLoginState(ctx context.Context, id string) error

	// SetPassword replaces the password hash and, in the same update, zeroes
	// the failure counter and clears any lockout: a successful credential
	// replacement always restores login eligibility.
	SetPassword(ctx context.Context, id string, passwordHash string) error

	// SetResetToken stores the reset-token fingerprint and expiry, overwriting
	// any pending reset so only the most recent request is redeemable.
	SetResetToken(ctx context.Context, id string, tokenHash string, expires time.Time) error

	// ClearResetToken removes any pending reset fingerprint and expiry.
	ClearResetToken(ctx context.Context, id string) error

	// RedeemResetToken finds the account whose stored reset fingerprint
	// matches tokenHash and whose expiry is after now, and in one atomic
	// update replaces the password hash and clears the reset fields, the
	// failure counter, and any lockout. Returns the updated account, or
	// domain.ErrInvalidResetToken when no live match exists. The single-match
	// filter is what makes a reset token single-use.
	RedeemResetToken(ctx context.Context, tokenHash string, passwordHash string, now time.Time) (*domain.Account, error)
}
