package validation

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.co",
		"plus+tag@example.com",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected %q valid, got %v", email, err)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"@example.com",
		"spaces in@example.com",
	}
	for _, email := range invalid {
		if err := ValidateEmail(email); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected %q invalid, got %v", email, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("exactly12chs"); err != nil {
		t.Errorf("expected 12-character password valid, got %v", err)
	}
	if err := ValidatePassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if err := ValidatePassword(""); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword for empty password, got %v", err)
	}
}
