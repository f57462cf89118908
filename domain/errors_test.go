package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category error
	}{
		{"invalid credentials", ErrInvalidCredentials, ErrUnauthorized},
		{"identity not found", ErrIdentityNotFound, ErrNotFound},
		{"otp expired", ErrOTPExpired, ErrValidation},
		{"otp invalid", ErrOTPInvalid, ErrValidation},
		{"otp not found", ErrOTPNotFound, ErrValidation},
		{"otp upstream", ErrOTPUpstream, ErrUpstream},
		{"token invalid", ErrTokenInvalid, ErrUnauthorized},
		{"token expired", ErrTokenExpired, ErrUnauthorized},
		{"token malformed", ErrTokenMalformed, ErrUnauthorized},
		{"validation helper", Invalid("name is required"), ErrValidation},
		{"conflict helper", Conflict("email %s taken", "a@b.c"), ErrConflict},
		{"not found helper", NotFound("appointment not found"), ErrNotFound},
		{"forbidden helper", Forbidden("admin only"), ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.category) {
				t.Errorf("%v should wrap %v", tt.err, tt.category)
			}
			wrapped := fmt.Errorf("service: %w", tt.err)
			if !errors.Is(wrapped, tt.category) {
				t.Errorf("wrapped %v should still match %v", tt.err, tt.category)
			}
		})
	}
}

func TestCategorizedError_Message(t *testing.T) {
	err := Conflict("email %s already registered", "jane@x.com")

	var ce *CategorizedError
	if !errors.As(err, &ce) {
		t.Fatal("expected *CategorizedError")
	}
	if ce.Message != "email jane@x.com already registered" {
		t.Errorf("unexpected message %q", ce.Message)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("conflict must not match not found")
	}
}

func TestUnconfiguredProviderIsNotAnUpstreamFailure(t *testing.T) {
	if errors.Is(ErrOTPProviderUnconfigured, ErrUpstream) {
		t.Error("unconfigured provider must fall back, not surface as upstream error")
	}
}
