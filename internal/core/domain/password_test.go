package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestPasswordPolicy_Accepts(t *testing.T) {
	policy := PasswordPolicy{MinLength: 8}

	for _, pw := range []string{"GoodPass1", "Xy3aaaaa", "A1b2c3d4e5"} {
		if err := policy.Validate(pw); err != nil {
			t.Fatalf("expected %q to pass, got %v", pw, err)
		}
	}
}

func TestPasswordPolicy_Rejects(t *testing.T) {
	policy := PasswordPolicy{MinLength: 8}

	cases := map[string]string{
		"Short1A":      "at least 8 characters",
		"alllower1x":   "uppercase",
		"ALLUPPER1X":   "lowercase",
		"NoDigitsHere": "digit",
	}
	for pw, wantRule := range cases {
		err := policy.Validate(pw)
		if !errors.Is(err, ErrPasswordPolicy) {
			t.Fatalf("expected ErrPasswordPolicy for %q, got %v", pw, err)
		}
		if !strings.Contains(err.Error(), wantRule) {
			t.Fatalf("error for %q does not name the violated rule: %q", pw, err)
		}
	}
}

func TestPasswordPolicy_ListsEveryViolation(t *testing.T) {
	policy := PasswordPolicy{MinLength: 8}

	err := policy.Validate("ab")
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, rule := range []string{"at least 8 characters", "uppercase", "digit"} {
		if !strings.Contains(err.Error(), rule) {
			t.Fatalf("missing rule %q in %q", rule, err)
		}
	}
}
