package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned to a handler wraps exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("resource already exists")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrUpstream     = errors.New("upstream service unavailable")
)

// Authentication errors
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrIdentityNotFound   = fmt.Errorf("%w: identity not found", ErrNotFound)
)

// OTP errors
var (
	ErrOTPExpired     = fmt.Errorf("%w: otp has expired", ErrValidation)
	ErrOTPInvalid     = fmt.Errorf("%w: invalid otp code", ErrValidation)
	ErrOTPNotFound    = fmt.Errorf("%w: no active otp", ErrValidation)
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
	ErrOTPUpstream    = fmt.Errorf("%w: otp provider failed", ErrUpstream)

	// ErrOTPProviderUnconfigured signals the caller must compare codes locally.
	ErrOTPProviderUnconfigured = errors.New("otp provider has no remote check")
)

// Token errors
var (
	ErrTokenInvalid   = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrTokenExpired   = fmt.Errorf("%w: token has expired", ErrUnauthorized)
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", ErrUnauthorized)
)

// CategorizedError carries a client-facing message on top of a category sentinel.
type CategorizedError struct {
	Kind    error
	Message string
}

func (e *CategorizedError) Error() string { return e.Message }

func (e *CategorizedError) Unwrap() error { return e.Kind }

// Invalid builds a validation error with a descriptive message.
func Invalid(format string, args ...any) error {
	return &CategorizedError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a uniqueness error with a descriptive message.
func Conflict(format string, args ...any) error {
	return &CategorizedError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error with a descriptive message.
func NotFound(format string, args ...any) error {
	return &CategorizedError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden builds an authorization error with a descriptive message.
func Forbidden(format string, args ...any) error {
	return &CategorizedError{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds an authentication error with a descriptive message.
func Unauthorized(format string, args ...any) error {
	return &CategorizedError{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}
