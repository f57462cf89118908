package mocks

import (
	"context"
	"time"

	"github.com/you/aarogyam/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	SendFunc   func(ctx context.Context, phone string) (*domain.OTPChallenge, error)
	VerifyFunc func(ctx context.Context, phone, code string) (*domain.Identity, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Send returns a fixed local code by default
func (m *MockOTPService) Send(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone)
	}
	return &domain.OTPChallenge{
		Phone:     phone,
		Code:      "123456",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}, nil
}

// Verify accepts "123456" by default
func (m *MockOTPService) Verify(ctx context.Context, phone, code string) (*domain.Identity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, phone, code)
	}
	if code != "123456" {
		return nil, domain.ErrOTPInvalid
	}
	return &domain.Identity{ID: 1, Name: "OTP User", Phone: phone, Role: domain.RolePatient}, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)

// MockOTPProvider implements domain.OTPProvider. By default it behaves like
// a local provider issuing Code.
type MockOTPProvider struct {
	IssueFunc func(ctx context.Context, phone string) (*domain.OTPChallenge, error)
	CheckFunc func(ctx context.Context, phone, code string) (bool, error)
	Code      string
	NameValue string
}

func NewMockOTPProvider() *MockOTPProvider {
	return &MockOTPProvider{Code: "123456", NameValue: "mock"}
}

func (m *MockOTPProvider) Issue(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, phone)
	}
	return &domain.OTPChallenge{Phone: phone, Code: m.Code}, nil
}

func (m *MockOTPProvider) Check(ctx context.Context, phone, code string) (bool, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, phone, code)
	}
	return false, domain.ErrOTPProviderUnconfigured
}

func (m *MockOTPProvider) Name() string { return m.NameValue }

var _ domain.OTPProvider = (*MockOTPProvider)(nil)

// MockOTPThrottle implements domain.OTPThrottle in memory
type MockOTPThrottle struct {
	CanResendFunc func(ctx context.Context, phone string) (bool, int64, error)
	MarkSentFunc  func(ctx context.Context, phone string, window time.Duration) error
	Marked        map[string]time.Duration
}

func NewMockOTPThrottle() *MockOTPThrottle {
	return &MockOTPThrottle{Marked: map[string]time.Duration{}}
}

func (m *MockOTPThrottle) CanResend(ctx context.Context, phone string) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, phone)
	}
	if w, ok := m.Marked[phone]; ok {
		return false, int64(w.Seconds()), nil
	}
	return true, 0, nil
}

func (m *MockOTPThrottle) MarkSent(ctx context.Context, phone string, window time.Duration) error {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, phone, window)
	}
	m.Marked[phone] = window
	return nil
}

var _ domain.OTPThrottle = (*MockOTPThrottle)(nil)
