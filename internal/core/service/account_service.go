package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
)

// AccountService implements administrative provisioning and password changes.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	policy domain.PasswordPolicy
	audit  ports.AuditSink
	logger zerolog.Logger
	now    func() time.Time
}

func NewAccountService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	policy domain.PasswordPolicy,
	audit ports.AuditSink,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		policy: policy,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// Create provisions a new account. The password runs through the same
// complexity policy as every other credential-setting path.
func (s *AccountService) Create(ctx context.Context, actor string, input ports.CreateAccountInput) (*domain.Account, error) {
	if input.Username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseRole(string(input.Role)); err != nil {
		return nil, err
	}
	if err := s.policy.Validate(input.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &domain.Account{
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditAccountCreated, actor, map[string]any{
		"username": created.Username,
		"role":     string(created.Role),
	})
	s.logger.Info().Str("actor", actor).Str("username", created.Username).Msg("account created")
	return created, nil
}

// ChangePassword replaces the target account's password. SetPassword clears
// the failure counter and lockout in the same update: any successful
// credential replacement is also an unlock.
func (s *AccountService) ChangePassword(ctx context.Context, actor, accountID, newPassword string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, account.ID, hash); err != nil {
		return err
	}

	s.audit.Record(domain.AuditPasswordChanged, actor, map[string]any{
		"username": account.Username,
	})
	s.logger.Info().Str("actor", actor).Str("username", account.Username).Msg("password changed")
	return nil
}
