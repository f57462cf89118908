package services

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/infrastructure/auth"
)

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

// SavePolicy is a no-op for in-memory enforcers
func (w *CasbinEnforcerWrapper) SavePolicy() error {
	if w.enforcer.GetAdapter() == nil {
		return nil
	}
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin. Roles are
// given as plain role names and mapped to casbin subjects.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: enforcer,
	}
}

// AddPolicy implements domain.PolicyService
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	if err := validatePolicy(role, resource, action); err != nil {
		return err
	}
	if _, err := p.enforcer.AddPolicy(auth.Subject(role), resource, action); err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	if err := validatePolicy(role, resource, action); err != nil {
		return err
	}
	removed, err := p.enforcer.RemovePolicy(auth.Subject(role), resource, action)
	if err != nil {
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	if !removed {
		return domain.NotFound("policy not found")
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(auth.Subject(role), resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}

func validatePolicy(role, resource, action string) error {
	if !domain.ValidRole(role) {
		return domain.Invalid("Invalid role %q", role)
	}
	if !strings.HasPrefix(resource, "/") {
		return domain.Invalid("Resource must be a path starting with /")
	}
	if strings.TrimSpace(action) == "" {
		return domain.Invalid("Action is required")
	}
	return nil
}
