package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/infrastructure/metrics"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	registry       domain.IdentityRegistry
	passwordSvc    domain.PasswordService
	tokenSvc       domain.TokenService
	otpSvc         domain.OTPService
	audit          domain.AuditLogger
	bootstrapToken string
}

// NewAuthService creates a new auth service. bootstrapToken may be empty, in
// which case the first admin can only be created out of band.
func NewAuthService(
	registry domain.IdentityRegistry,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	audit domain.AuditLogger,
	bootstrapToken string,
) domain.AuthService {
	return &AuthServiceImpl{
		registry:       registry,
		passwordSvc:    passwordSvc,
		tokenSvc:       tokenSvc,
		otpSvc:         otpSvc,
		audit:          audit,
		bootstrapToken: bootstrapToken,
	}
}

// Register implements domain.AuthService. The role is always patient.
func (s *AuthServiceImpl) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	identity, err := s.CreateIdentity(ctx, in, domain.RolePatient)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("register", metrics.Outcome(false)).Inc()
		return nil, err
	}
	return s.issue(ctx, identity, domain.UserRegistrationEvent)
}

// RegisterAdmin implements domain.AuthService
func (s *AuthServiceImpl) RegisterAdmin(ctx context.Context, in domain.RegisterInput, grant domain.AdminGrant) (*domain.AuthResult, error) {
	bootstrapped, err := s.authorizeAdminGrant(ctx, grant)
	if err != nil {
		s.logEvent(ctx, domain.NewAuditEvent(domain.AdminBootstrapEvent, 0).WithEmail(in.Email).WithError(err))
		return nil, err
	}

	identity, err := s.CreateIdentity(ctx, in, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if bootstrapped {
		s.logEvent(ctx, domain.NewAuditEvent(domain.AdminBootstrapEvent, identity.ID).WithEmail(identity.Email))
	}
	return s.issue(ctx, identity, domain.UserRegistrationEvent)
}

// authorizeAdminGrant accepts an admin principal, or the bootstrap token
// while no admin exists yet. It reports whether the token path was used.
func (s *AuthServiceImpl) authorizeAdminGrant(ctx context.Context, grant domain.AdminGrant) (bool, error) {
	if grant.Principal != nil && grant.Principal.Role == domain.RoleAdmin {
		return false, nil
	}
	if s.bootstrapToken == "" || grant.BootstrapToken == "" {
		return false, domain.Forbidden("Admin registration requires an administrator")
	}
	if subtle.ConstantTimeCompare([]byte(grant.BootstrapToken), []byte(s.bootstrapToken)) != 1 {
		return false, domain.Forbidden("Invalid bootstrap token")
	}
	admins, err := s.registry.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return false, domain.Forbidden("Bootstrap token is only valid before the first admin exists")
	}
	return true, nil
}

// CreateIdentity implements domain.AuthService. It validates, hashes the
// password if one is given and stores the identity with the given role.
func (s *AuthServiceImpl) CreateIdentity(ctx context.Context, in domain.RegisterInput, role string) (*domain.Identity, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}
	if !domain.ValidRole(role) {
		return nil, domain.Invalid("Invalid role %q", role)
	}

	identity := &domain.Identity{
		Name:  strings.TrimSpace(in.Name),
		Email: in.Email,
		Phone: in.Phone,
		Role:  role,
	}
	if in.Password != "" {
		hashed, err := s.passwordSvc.Hash(in.Password)
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		identity.PasswordHash = hashed
	}

	if err := s.registry.Create(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Login implements domain.AuthService. Unknown email, passwordless identity
// and wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.Invalid("Email and password are required")
	}

	identity, err := s.registry.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up identity: %w", err)
		}
		s.loginFailed(ctx, email, 0, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}
	if !identity.HasPassword() || !s.passwordSvc.Verify(identity.PasswordHash, password) {
		s.loginFailed(ctx, email, identity.ID, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(ctx, identity, domain.UserLoginEvent)
}

// LoginWithOTP implements domain.AuthService
func (s *AuthServiceImpl) LoginWithOTP(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	identity, err := s.otpSvc.Verify(ctx, phone, code)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("otp_login", metrics.Outcome(false)).Inc()
		return nil, err
	}
	return s.issue(ctx, identity, domain.UserLoginEvent)
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, identityID uint) (*domain.Identity, error) {
	return s.registry.FindByID(ctx, identityID)
}

// UpdateProfile implements domain.AuthService. Role changes are not possible
// through this path.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, identityID uint, patch domain.ProfilePatch) (*domain.Identity, error) {
	if err := validateProfilePatch(patch); err != nil {
		return nil, err
	}
	identity, err := s.registry.Update(ctx, identityID, domain.IdentityPatch{ProfilePatch: patch})
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.IdentityUpdatedEvent, identityID).WithMetadata("actor", identityID))
	return identity, nil
}

// CheckUser implements domain.AuthService. It reports whether an identity
// exists for the email or phone, checking email first.
func (s *AuthServiceImpl) CheckUser(ctx context.Context, email, phone string) (bool, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return false, domain.Invalid("Either email or phone number is required")
	}
	if email != "" {
		exists, err := s.exists(s.registry.FindByEmail(ctx, email))
		if err != nil || exists {
			return exists, err
		}
	}
	if phone != "" {
		return s.exists(s.registry.FindByPhone(ctx, phone))
	}
	return false, nil
}

func (s *AuthServiceImpl) exists(identity *domain.Identity, err error) (bool, error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up identity: %w", err)
	}
	return identity != nil, nil
}

func (s *AuthServiceImpl) issue(ctx context.Context, identity *domain.Identity, event domain.AuditEventType) (*domain.AuthResult, error) {
	token, err := s.tokenSvc.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.AuthEvents.WithLabelValues(string(event), metrics.Outcome(true)).Inc()
	s.logEvent(ctx, domain.NewAuditEvent(event, identity.ID).
		WithEmail(identity.Email).
		WithPhone(identity.Phone).
		WithMetadata("role", identity.Role))

	return &domain.AuthResult{Identity: identity, Token: token}, nil
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, email string, id uint, err error) {
	metrics.AuthEvents.WithLabelValues(string(domain.UserLoginEvent), metrics.Outcome(false)).Inc()
	s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, id).WithEmail(email).WithError(err))
}

func (s *AuthServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogEvent(ctx, event.WithRequestID(domain.RequestIDFromContext(ctx)))
}
