package domain

import (
	"errors"
	"time"
)

// Role classifies what an account is allowed to do. The set is closed:
// wire values outside it are rejected at the boundary by ParseRole.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleBusinessAssistant Role = "business_assistant"
	RoleSurgicalAssistant Role = "surgical_assistant"
	RoleTeamLeader        Role = "team_leader"
	RoleScheduler         Role = "scheduler"
)

// AllRoles lists every valid role, in no particular order.
var AllRoles = []Role{
	RoleAdmin,
	RoleBusinessAssistant,
	RoleSurgicalAssistant,
	RoleTeamLeader,
	RoleScheduler,
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountLocked = errors.New("account locked")
var ErrAccountNotFound = errors.New("account not found")
var ErrAccountExists = errors.New("account already exists")
var ErrInvalidResetToken = errors.New("invalid or expired reset token")
var ErrInvalidRole = errors.New("invalid role")
var ErrInvalidInput = errors.New("invalid input")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidToken = errors.New("invalid token")

// ParseRole converts a wire string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	for _, known := range AllRoles {
		if r == known {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// Account models a stored identity with credential material.
//
// LockedUntil is set if and only if the account is currently locked out.
// ResetTokenHash and ResetTokenExpires are always set and cleared together;
// only the fingerprint of a reset token is ever persisted, never the plaintext.
type Account struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	DisplayName       string     `json:"display_name,omitempty"`
	Email             string     `json:"email,omitempty"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	FailedAttempts    int        `json:"-"`
	LockedUntil       *time.Time `json:"-"`
	ResetTokenHash    string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// LockoutState returns the account's current lockout counters.
func (a *Account) LockoutState() LockoutState {
	return LockoutState{FailedAttempts: a.FailedAttempts, LockedUntil: a.LockedUntil}
}
