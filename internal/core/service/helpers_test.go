package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/surgassist/records-api/internal/core/domain"
)

// memAccountRepo is an in-memory AccountRepository with the same atomicity
// guarantees as the real store: one mutex serializes every mutation.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	nextID   int
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *memAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Username == account.Username {
			return nil, domain.ErrAccountExists
		}
	}
	r.nextID++
	created := cloneAccount(account)
	created.ID = strconv.Itoa(r.nextID)
	r.accounts[created.ID] = cloneAccount(created)
	return created, nil
}

func (r *memAccountRepo) RecordFailedAttempt(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	a.FailedAttempts++
	return a.FailedAttempts, nil
}

func (r *memAccountRepo) SetLockout(_ context.Context, id string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LockedUntil = &until
	return nil
}

func (r *memAccountRepo) ResetLoginState(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.FailedAttempts = 0
	a.LockedUntil = nil
	return nil
}

func (r *memAccountRepo) SetPassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	a.FailedAttempts = 0
	a.LockedUntil = nil
	return nil
}

func (r *memAccountRepo) SetResetToken(_ context.Context, id string, tokenHash string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.ResetTokenHash = tokenHash
	a.ResetTokenExpires = &expires
	return nil
}

func (r *memAccountRepo) ClearResetToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.ResetTokenHash = ""
	a.ResetTokenExpires = nil
	return nil
}

func (r *memAccountRepo) RedeemResetToken(_ context.Context, tokenHash string, passwordHash string, now time.Time) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ResetTokenHash == tokenHash && a.ResetTokenExpires != nil && a.ResetTokenExpires.After(now) {
			a.PasswordHash = passwordHash
			a.ResetTokenHash = ""
			a.ResetTokenExpires = nil
			a.FailedAttempts = 0
			a.LockedUntil = nil
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrInvalidResetToken
}

// stubAudit records emitted events for assertions.
type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *stubAudit) Record(action domain.AuditAction, actor string, detail map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, domain.AuditEvent{Action: action, Actor: actor, Detail: detail})
}

func (s *stubAudit) actions() []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditAction, len(s.events))
	for i, e := range s.events {
		out[i] = e.Action
	}
	return out
}

func (s *stubAudit) last() *domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return nil
	}
	e := s.events[len(s.events)-1]
	return &e
}

// fakeHasher avoids bcrypt latency in tests.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (fakeHasher) Verify(plaintext, digest string) bool  { return digest == "hashed:"+plaintext }

// stubMailer captures the last delivery.
type stubMailer struct {
	mu        sync.Mutex
	delivered int
	address   string
	subject   string
	body      string
	fail      bool
}

func (m *stubMailer) Deliver(_ context.Context, address, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered++
	m.address, m.subject, m.body = address, subject, body
	if m.fail {
		return errStubDelivery
	}
	return nil
}

var errStubDelivery = errDelivery{}

type errDelivery struct{}

func (errDelivery) Error() string { return "stub delivery failed" }

// tokenFromMailBody pulls the plaintext reset token out of the delivered link.
func tokenFromMailBody(body string) string {
	const marker = "token="
	i := strings.Index(body, marker)
	if i < 0 {
		return ""
	}
	rest := body[i+len(marker):]
	if j := strings.IndexAny(rest, " \r\n"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

// stubThrottle allows or denies every dispatch.
type stubThrottle struct {
	deny bool
}

func (t *stubThrottle) Allow(context.Context, string) bool { return !t.deny }
