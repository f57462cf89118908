package services

import (
	"context"

	"github.com/you/aarogyam/domain"
)

// AdminServiceImpl implements domain.AdminService
type AdminServiceImpl struct {
	registry domain.IdentityRegistry
	auth     domain.AuthService
	audit    domain.AuditLogger
}

func NewAdminService(registry domain.IdentityRegistry, auth domain.AuthService, audit domain.AuditLogger) domain.AdminService {
	return &AdminServiceImpl{registry: registry, auth: auth, audit: audit}
}

// ListUsers returns every non-admin identity, newest first
func (s *AdminServiceImpl) ListUsers(ctx context.Context) ([]*domain.Identity, error) {
	return s.registry.List(ctx, domain.IdentityFilter{ExcludeRole: domain.RoleAdmin})
}

func (s *AdminServiceImpl) GetUser(ctx context.Context, id uint) (*domain.Identity, error) {
	return s.registry.FindByID(ctx, id)
}

// CreateUser registers an identity with an explicit role; patient when empty.
func (s *AdminServiceImpl) CreateUser(ctx context.Context, in domain.RegisterInput, role string) (*domain.Identity, error) {
	if role == "" {
		role = domain.RolePatient
	}
	identity, err := s.auth.CreateIdentity(ctx, in, role)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, identity.ID).
		WithEmail(identity.Email).
		WithMetadata("role", identity.Role))
	return identity, nil
}

// UpdateUser applies an administrative patch, which may change the role.
// An actor cannot change their own role.
func (s *AdminServiceImpl) UpdateUser(ctx context.Context, actorID, id uint, patch domain.IdentityPatch) (*domain.Identity, error) {
	if err := validateProfilePatch(patch.ProfilePatch); err != nil {
		return nil, err
	}
	if actorID == id && patch.Role != nil {
		current, err := s.registry.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if *patch.Role != current.Role {
			return nil, domain.Invalid("Administrators cannot change their own role")
		}
	}
	identity, err := s.registry.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	event := domain.NewAuditEvent(domain.IdentityUpdatedEvent, id).WithMetadata("actor", actorID)
	if patch.Role != nil {
		event.WithMetadata("role", *patch.Role)
	}
	s.logEvent(ctx, event)
	return identity, nil
}

func (s *AdminServiceImpl) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return domain.Invalid("Administrators cannot delete their own account")
	}
	if err := s.registry.Delete(ctx, id); err != nil {
		return err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.IdentityDeletedEvent, id).WithMetadata("actor", actorID))
	return nil
}

func (s *AdminServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogEvent(ctx, event.WithRequestID(domain.RequestIDFromContext(ctx)))
}
