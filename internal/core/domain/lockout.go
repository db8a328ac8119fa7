package domain

import (
	"fmt"
	"time"
)

// LockedError reports a login attempt against a locked account. It carries the
// lockout deadline so the transport layer can render a remaining-time hint.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrAccountLocked) match.
func (e *LockedError) Is(target error) bool {
	return target == ErrAccountLocked
}

// LockoutState carries the failure counters for a single account.
type LockoutState struct {
	FailedAttempts int
	LockedUntil    *time.Time
}

// LockoutPolicy decides when repeated login failures lock an account. It is a
// pure state-transition function: no clock, no I/O, callers pass now.
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

// IsLocked reports whether the account is locked out at the given instant.
func (p LockoutPolicy) IsLocked(state LockoutState, now time.Time) bool {
	return state.LockedUntil != nil && state.LockedUntil.After(now)
}

// OnFailure returns the state after one more failed attempt. The lock engages
// exactly when the incremented counter reaches MaxAttempts, not one attempt later.
func (p LockoutPolicy) OnFailure(state LockoutState, now time.Time) LockoutState {
	next := LockoutState{FailedAttempts: state.FailedAttempts + 1, LockedUntil: state.LockedUntil}
	if next.FailedAttempts >= p.MaxAttempts {
		until := now.Add(p.Duration)
		next.LockedUntil = &until
	}
	return next
}

// OnSuccess returns the state after a successful credential check: counter
// reset, lock cleared.
func (p LockoutPolicy) OnSuccess() LockoutState {
	return LockoutState{}
}

// Remaining reports how long the lock has left at the given instant, zero if
// the account is not locked.
func (p LockoutPolicy) Remaining(state LockoutState, now time.Time) time.Duration {
	if !p.IsLocked(state, now) {
		return 0
	}
	return state.LockedUntil.Sub(now)
}
