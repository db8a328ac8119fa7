package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
)

const (
	defaultResetWindow = time.Hour
	resetTokenBytes    = 32
)

// ResetService implements the two-phase self-service password reset.
//
// The request phase is enumeration-resistant by construction: every path out
// of RequestReset that is visible to the caller is identical; only the side
// effects (token stored, mail dispatched) differ.
type ResetService struct {
	repo     ports.AccountRepository
	hasher   ports.PasswordHasher
	policy   domain.PasswordPolicy
	eligible map[domain.Role]bool
	window   time.Duration
	mailer   ports.Mailer
	throttle ports.ResetThrottle
	audit    ports.AuditSink
	logger   zerolog.Logger
	baseURL  string
	now      func() time.Time
}

func NewResetService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	policy domain.PasswordPolicy,
	eligibleRoles []domain.Role,
	window time.Duration,
	mailer ports.Mailer,
	throttle ports.ResetThrottle,
	audit ports.AuditSink,
	logger zerolog.Logger,
	baseURL string,
) *ResetService {
	if window <= 0 {
		window = defaultResetWindow
	}
	eligible := make(map[domain.Role]bool, len(eligibleRoles))
	for _, r := range eligibleRoles {
		eligible[r] = true
	}
	return &ResetService{
		repo:     repo,
		hasher:   hasher,
		policy:   policy,
		eligible: eligible,
		window:   window,
		mailer:   mailer,
		throttle: throttle,
		audit:    audit,
		logger:   logger,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// RequestReset starts a reset for the named account. Nonexistent accounts,
// ineligible roles, and accounts without a delivery address all return nil,
// so the caller renders the same generic response either way.
func (s *ResetService) RequestReset(ctx context.Context, username string) error {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return err
	}

	if !s.eligible[account.Role] || account.Email == "" {
		s.logger.Debug().Str("username", username).Msg("reset request suppressed")
		return nil
	}

	if !s.throttle.Allow(ctx, account.Username) {
		s.logger.Info().Str("username", username).Msg("reset request throttled")
		return nil
	}

	plaintext, err := newResetToken()
	if err != nil {
		return err
	}

	expires := s.now().UTC().Add(s.window)
	// Overwrites any pending reset: only the most recent request is redeemable.
	if err := s.repo.SetResetToken(ctx, account.ID, fingerprintToken(plaintext), expires); err != nil {
		return err
	}

	s.audit.Record(domain.AuditPasswordResetRequested, account.Username, map[string]any{
		"expires": expires.Format(time.RFC3339),
	})

	subject := "Password reset"
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below within %d minutes to choose a new password:\n\n%s/reset?token=%s\n\n"+
			"If you did not request this, you can ignore this message.",
		int(s.window.Minutes()), s.baseURL, plaintext,
	)
	if err := s.mailer.Deliver(ctx, account.Email, subject, body); err != nil {
		// Delivery failure never surfaces as a reset-request failure.
		s.logger.Warn().Err(err).Str("username", username).Msg("reset mail delivery failed")
	}

	return nil
}

// RedeemReset exchanges a plaintext reset token for a new password. The match,
// the expiry check, the password replacement, and the clearing of the reset
// and lockout fields happen in one atomic store operation, which is what makes
// a token single-use and a redemption an implicit unlock.
func (s *ResetService) RedeemReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrInvalidResetToken
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	account, err := s.repo.RedeemResetToken(ctx, fingerprintToken(token), hash, s.now().UTC())
	if err != nil {
		return err
	}

	s.audit.Record(domain.AuditPasswordReset, account.Username, nil)
	s.logger.Info().Str("username", account.Username).Msg("password reset redeemed")
	return nil
}

// newResetToken returns a fresh plaintext token: 32 random bytes, base64url.
func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// fingerprintToken hashes a reset token for storage and lookup. SHA-256 rather
// than bcrypt: the token already carries 256 bits of entropy, so the slow
// hasher would only add latency on the redemption path.
func fingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
