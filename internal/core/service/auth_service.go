package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
)

// AuthService implements login with brute-force lockout.
type AuthService struct {
	repo    ports.AccountRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	lockout domain.LockoutPolicy
	audit   ports.AuditSink
	logger  zerolog.Logger
	now     func() time.Time
}

func NewAuthService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	lockout domain.LockoutPolicy,
	audit ports.AuditSink,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		lockout: lockout,
		audit:   audit,
		logger:  logger,
		now:     time.Now,
	}
}

// Login verifies the credentials and issues a session token.
//
// The lockout check short-circuits before any password comparison: attempts
// against a locked account never increment the counter (sustained attack must
// not extend the lockout) and never pay for a bcrypt compare.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Unknown username collapses into the same failure as a wrong
			// password so callers cannot enumerate accounts.
			s.audit.Record(domain.AuditLoginFailed, username, map[string]any{"reason": "unknown_username"})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now().UTC()
	if s.lockout.IsLocked(account.LockoutState(), now) {
		s.audit.Record(domain.AuditLoginLocked, account.Username, map[string]any{
			"locked_until": account.LockedUntil.Format(time.RFC3339),
		})
		return nil, &domain.LockedError{Until: *account.LockedUntil}
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, s.recordFailure(ctx, account, now)
	}

	// An elapsed lockout window or a nonzero counter is cleared here; success
	// always restores a clean state.
	if err := s.repo.ResetLoginState(ctx, account.ID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditLogin, account.Username, nil)
	s.logger.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("login succeeded")

	return &ports.LoginResult{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
		Token:     token,
	}, nil
}

// recordFailure applies one failed attempt. The repository performs the
// increment atomically; the policy decides, from the post-increment count,
// whether the lock engages. The attempt that reaches the threshold already
// reports locked, not the one after.
func (s *AuthService) recordFailure(ctx context.Context, account *domain.Account, now time.Time) error {
	count, err := s.repo.RecordFailedAttempt(ctx, account.ID)
	if err != nil {
		return err
	}

	next := s.lockout.OnFailure(domain.LockoutState{FailedAttempts: count - 1}, now)
	if next.LockedUntil != nil {
		if err := s.repo.SetLockout(ctx, account.ID, *next.LockedUntil); err != nil {
			return err
		}
		s.audit.Record(domain.AuditAccountLocked, account.Username, map[string]any{
			"failed_attempts": count,
			"locked_until":    next.LockedUntil.Format(time.RFC3339),
		})
		s.logger.Warn().Str("username", account.Username).Int("failed_attempts", count).Msg("account locked out")
		return &domain.LockedError{Until: *next.LockedUntil}
	}

	s.audit.Record(domain.AuditLoginFailed, account.Username, map[string]any{"failed_attempts": count})
	return domain.ErrInvalidCredentials
}
