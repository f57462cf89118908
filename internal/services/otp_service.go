package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/infrastructure/metrics"
)

type OTPConfig struct {
	TTL          time.Duration
	ResendWindow time.Duration
}

// OTPServiceImpl implements domain.OTPService. Codes from a local provider
// are stored on the identity; an external provider keeps its own state.
type OTPServiceImpl struct {
	registry domain.IdentityRegistry
	provider domain.OTPProvider
	throttle domain.OTPThrottle
	notifier domain.NotificationService
	audit    domain.AuditLogger
	log      *zap.Logger
	config   OTPConfig
	now      func() time.Time
}

// NewOTPService creates a new OTP service. throttle, notifier and audit may be nil.
func NewOTPService(
	registry domain.IdentityRegistry,
	provider domain.OTPProvider,
	throttle domain.OTPThrottle,
	notifier domain.NotificationService,
	audit domain.AuditLogger,
	log *zap.Logger,
	config OTPConfig,
) domain.OTPService {
	if log == nil {
		log = zap.NewNop()
	}
	if config.TTL <= 0 {
		config.TTL = 10 * time.Minute
	}
	return &OTPServiceImpl{
		registry: registry,
		provider: provider,
		throttle: throttle,
		notifier: notifier,
		audit:    audit,
		log:      log,
		config:   config,
		now:      time.Now,
	}
}

// Send implements domain.OTPService
func (s *OTPServiceImpl) Send(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, domain.Invalid("Phone number is required")
	}

	identity, err := s.registry.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("No account found with this phone number, please register first")
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if err := s.checkThrottle(ctx, identity.Phone); err != nil {
		return nil, err
	}

	challenge, err := s.provider.Issue(ctx, identity.Phone)
	if err != nil {
		s.logEvent(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, identity.ID).WithPhone(identity.Phone).WithError(err))
		return nil, err
	}
	challenge.Phone = identity.Phone
	challenge.ExpiresAt = s.now().Add(s.config.TTL)

	if challenge.Code != "" {
		if err := s.registry.SetChallenge(ctx, identity.ID, challenge.Code, challenge.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to store otp: %w", err)
		}
		s.deliver(ctx, identity.Phone, challenge.Code)
	} else if identity.OTPCode != "" {
		// a stale local code must not remain usable once the provider owns the challenge
		if err := s.registry.ClearChallenge(ctx, identity.ID); err != nil {
			return nil, fmt.Errorf("failed to clear otp: %w", err)
		}
	}

	if s.throttle != nil && s.config.ResendWindow > 0 {
		if err := s.throttle.MarkSent(ctx, identity.Phone, s.config.ResendWindow); err != nil {
			s.log.Warn("Failed to record OTP send", zap.Error(err))
		}
	}

	metrics.OTPIssued.WithLabelValues(s.provider.Name()).Inc()
	s.logEvent(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, identity.ID).
		WithPhone(identity.Phone).
		WithMetadata("provider", s.provider.Name()))

	return challenge, nil
}

// Verify implements domain.OTPService. The provider decides first; only a
// provider without remote state falls back to the stored code.
func (s *OTPServiceImpl) Verify(ctx context.Context, phone, code string) (*domain.Identity, error) {
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(code) == "" {
		return nil, domain.Invalid("Phone number and OTP are required")
	}

	identity, err := s.registry.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	ok, err := s.provider.Check(ctx, identity.Phone, strings.TrimSpace(code))
	switch {
	case errors.Is(err, domain.ErrOTPProviderUnconfigured):
		err = s.checkStored(ctx, identity, strings.TrimSpace(code))
	case err == nil && !ok:
		err = domain.ErrOTPInvalid
	}
	if err != nil {
		s.logEvent(ctx, domain.NewAuditEvent(domain.OTPFailureEvent, identity.ID).WithPhone(identity.Phone).WithError(err))
		return nil, err
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.OTPVerifyEvent, identity.ID).WithPhone(identity.Phone))
	return identity, nil
}

// checkStored compares against the identity's stored challenge and clears it
// on success or expiry, so a code is accepted at most once.
func (s *OTPServiceImpl) checkStored(ctx context.Context, identity *domain.Identity, code string) error {
	if identity.OTPCode == "" || identity.OTPExpiresAt == nil {
		return domain.ErrOTPNotFound
	}
	if !identity.HasLiveOTP(s.now()) {
		if err := s.registry.ClearChallenge(ctx, identity.ID); err != nil {
			s.log.Warn("Failed to clear expired OTP", zap.Uint("user_id", identity.ID), zap.Error(err))
		}
		return domain.ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(identity.OTPCode), []byte(code)) != 1 {
		return domain.ErrOTPInvalid
	}
	if err := s.registry.ClearChallenge(ctx, identity.ID); err != nil {
		return fmt.Errorf("failed to clear otp: %w", err)
	}
	identity.ClearOTP()
	return nil
}

// checkThrottle rejects sends inside the resend window. A throttle store
// outage does not block logins.
func (s *OTPServiceImpl) checkThrottle(ctx context.Context, phone string) error {
	if s.throttle == nil {
		return nil
	}
	canResend, wait, err := s.throttle.CanResend(ctx, phone)
	if err != nil {
		s.log.Warn("OTP throttle unavailable", zap.Error(err))
		return nil
	}
	if !canResend {
		return fmt.Errorf("%w: please wait %d seconds before requesting a new OTP", domain.ErrOTPResendLimit, wait)
	}
	return nil
}

func (s *OTPServiceImpl) deliver(ctx context.Context, phone, code string) {
	if s.notifier == nil {
		return
	}
	msg := fmt.Sprintf("Your Aarogyam verification code is %s. It is valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notifier.SendSMS(ctx, phone, msg); err != nil {
		s.log.Warn("Failed to deliver OTP SMS", zap.Error(err))
	}
}

func (s *OTPServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogEvent(ctx, event.WithRequestID(domain.RequestIDFromContext(ctx)))
}
