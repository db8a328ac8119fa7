package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrPasswordPolicy marks password complexity violations. The wrapped message
// names every rule that failed; callers match with errors.Is.
var ErrPasswordPolicy = errors.New("password does not meet complexity requirements")

// PasswordPolicy is the single complexity validator shared by account
// provisioning, administrative password changes, and self-service reset.
type PasswordPolicy struct {
	MinLength int
}

// Validate checks the candidate password and returns an error wrapping
// ErrPasswordPolicy that lists every violated rule, or nil.
func (p PasswordPolicy) Validate(password string) error {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	var violations []string
	if len(password) < p.MinLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters", p.MinLength))
	}
	if !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a digit")
	}

	if len(violations) > 0 {
		return fmt.Errorf("%w: %s", ErrPasswordPolicy, strings.Join(violations, "; "))
	}
	return nil
}
