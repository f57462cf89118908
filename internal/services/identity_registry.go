package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you/aarogyam/domain"
)

// IdentityRegistryImpl implements domain.IdentityRegistry
type IdentityRegistryImpl struct {
	repo  domain.IdentityRepository
	phone domain.PhoneNormalizer
}

// NewIdentityRegistry creates a registry normalizing phones with normalizer
func NewIdentityRegistry(repo domain.IdentityRepository, normalizer domain.PhoneNormalizer) domain.IdentityRegistry {
	return &IdentityRegistryImpl{repo: repo, phone: normalizer}
}

// Create implements domain.IdentityRegistry. Email is checked before phone;
// the store's unique indexes remain authoritative for concurrent creates.
func (r *IdentityRegistryImpl) Create(ctx context.Context, identity *domain.Identity) error {
	identity.Email = normalizeEmail(identity.Email)
	identity.Phone = r.phone.Normalize(identity.Phone)
	if identity.Email == "" && identity.Phone == "" {
		return domain.Invalid("Either email or phone number is required")
	}
	if identity.Role == "" {
		identity.Role = domain.RolePatient
	}
	if !domain.ValidRole(identity.Role) {
		return domain.Invalid("Invalid role %q", identity.Role)
	}

	if err := r.ensureEmailFree(ctx, identity.Email, 0); err != nil {
		return err
	}
	if err := r.ensurePhoneFree(ctx, identity.Phone, 0); err != nil {
		return err
	}

	if err := r.repo.Create(ctx, identity); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

func (r *IdentityRegistryImpl) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.repo.FindByEmail(ctx, normalizeEmail(email))
}

// FindByPhone implements domain.IdentityRegistry; raw input is normalized first.
func (r *IdentityRegistryImpl) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	return r.repo.FindByPhone(ctx, r.phone.Normalize(phone))
}

func (r *IdentityRegistryImpl) FindByID(ctx context.Context, id uint) (*domain.Identity, error) {
	return r.repo.FindByID(ctx, id)
}

// Update implements domain.IdentityRegistry. Only non-nil patch fields are
// applied, and email/phone changes are re-checked against other identities.
func (r *IdentityRegistryImpl) Update(ctx context.Context, id uint, patch domain.IdentityPatch) (*domain.Identity, error) {
	identity, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email != identity.Email {
			if err := r.ensureEmailFree(ctx, email, id); err != nil {
				return nil, err
			}
		}
		identity.Email = email
	}
	if patch.Phone != nil {
		phone := r.phone.Normalize(*patch.Phone)
		if phone != identity.Phone {
			if err := r.ensurePhoneFree(ctx, phone, id); err != nil {
				return nil, err
			}
		}
		identity.Phone = phone
	}
	if identity.Email == "" && identity.Phone == "" {
		return nil, domain.Invalid("Either email or phone number is required")
	}
	if patch.Role != nil {
		if !domain.ValidRole(*patch.Role) {
			return nil, domain.Invalid("Invalid role %q", *patch.Role)
		}
		identity.Role = *patch.Role
	}
	applyProfilePatch(identity, patch.ProfilePatch)

	if err := r.repo.Update(ctx, identity, patch.Fields()); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update identity: %w", err)
	}
	return identity, nil
}

func (r *IdentityRegistryImpl) SetChallenge(ctx context.Context, id uint, code string, expiresAt time.Time) error {
	return r.repo.UpdateOTP(ctx, id, code, &expiresAt)
}

func (r *IdentityRegistryImpl) ClearChallenge(ctx context.Context, id uint) error {
	return r.repo.UpdateOTP(ctx, id, "", nil)
}

// Delete implements domain.IdentityRegistry. Appointments and reports that
// reference the identity are left in place.
func (r *IdentityRegistryImpl) Delete(ctx context.Context, id uint) error {
	return r.repo.Delete(ctx, id)
}

func (r *IdentityRegistryImpl) List(ctx context.Context, filter domain.IdentityFilter) ([]*domain.Identity, error) {
	return r.repo.List(ctx, filter)
}

func (r *IdentityRegistryImpl) CountByRole(ctx context.Context, role string) (int64, error) {
	return r.repo.CountByRole(ctx, role)
}

func (r *IdentityRegistryImpl) ensureEmailFree(ctx context.Context, email string, self uint) error {
	if email == "" {
		return nil
	}
	existing, err := r.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check email: %w", err)
	case existing.ID != self:
		return domain.Conflict("User with this email already exists")
	}
	return nil
}

func (r *IdentityRegistryImpl) ensurePhoneFree(ctx context.Context, phone string, self uint) error {
	if phone == "" {
		return nil
	}
	existing, err := r.repo.FindByPhone(ctx, phone)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check phone: %w", err)
	case existing.ID != self:
		return domain.Conflict("User with this phone number already exists")
	}
	return nil
}

func applyProfilePatch(identity *domain.Identity, p domain.ProfilePatch) {
	if p.Name != nil {
		identity.Name = strings.TrimSpace(*p.Name)
	}
	if p.BloodGroup != nil {
		identity.Health.BloodGroup = *p.BloodGroup
	}
	if p.Height != nil {
		identity.Health.Height = *p.Height
	}
	if p.Weight != nil {
		identity.Health.Weight = *p.Weight
	}
	if p.Allergies != nil {
		identity.Health.Allergies = *p.Allergies
	}
	if p.Location != nil {
		identity.Health.Location = *p.Location
	}
	if p.AdditionalHealthInfo != nil {
		identity.Health.AdditionalInfo = *p.AdditionalHealthInfo
	}
}
