package services

import (
	"testing"
	"time"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/mocks"
)

// authFixture bundles an AuthService with the in-memory collaborators behind it
type authFixture struct {
	svc      domain.AuthService
	repo     *mocks.MockIdentityRepository
	registry domain.IdentityRegistry
	password *mocks.MockPasswordService
	tokens   *mocks.MockTokenService
	otp      *mocks.MockOTPService
	audit    *mocks.MockAuditLogger
}

const testBootstrapToken = "bootstrap-secret"

// createAuthServiceForTest wires AuthService over an in-memory identity store
func createAuthServiceForTest(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		repo:     mocks.NewMockIdentityRepository(),
		password: mocks.NewMockPasswordService(),
		tokens:   mocks.NewMockTokenService(),
		otp:      mocks.NewMockOTPService(),
		audit:    mocks.NewMockAuditLogger(),
	}
	f.registry = NewIdentityRegistry(f.repo, domain.NewPhoneNormalizer("+91"))
	f.svc = NewAuthService(f.registry, f.password, f.tokens, f.otp, f.audit, testBootstrapToken)
	return f
}

// otpFixture bundles an OTPService with controllable time
type otpFixture struct {
	svc      *OTPServiceImpl
	repo     *mocks.MockIdentityRepository
	provider *mocks.MockOTPProvider
	throttle *mocks.MockOTPThrottle
	notifier *mocks.MockNotificationService
	audit    *mocks.MockAuditLogger
	clock    time.Time
}

func createOTPServiceForTest(t *testing.T) *otpFixture {
	t.Helper()

	f := &otpFixture{
		repo:     mocks.NewMockIdentityRepository(),
		provider: mocks.NewMockOTPProvider(),
		throttle: mocks.NewMockOTPThrottle(),
		notifier: mocks.NewMockNotificationService(),
		audit:    mocks.NewMockAuditLogger(),
		clock:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	registry := NewIdentityRegistry(f.repo, domain.NewPhoneNormalizer("+91"))
	f.svc = NewOTPService(registry, f.provider, f.throttle, f.notifier, f.audit, nil, OTPConfig{
		TTL:          10 * time.Minute,
		ResendWindow: 30 * time.Second,
	}).(*OTPServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

// createValidIdentity creates a phone-only patient for testing
func createValidIdentity(t *testing.T) *domain.Identity {
	t.Helper()

	return &domain.Identity{
		Name:      "Raj",
		Phone:     "+919876543210",
		Role:      domain.RolePatient,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
}

// createPasswordIdentity creates an email+password patient for testing
func createPasswordIdentity(t *testing.T) *domain.Identity {
	t.Helper()

	return &domain.Identity{
		Name:         "Jane",
		Email:        "jane@x.com",
		PasswordHash: "hashed_secret1",
		Role:         domain.RolePatient,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
	}
}

func strPtr(s string) *string { return &s }
