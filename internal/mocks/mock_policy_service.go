package mocks

import "github.com/you/aarogyam/domain"

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	AddPolicyFunc       func(role, resource, action string) error
	RemovePolicyFunc    func(role, resource, action string) error
	CheckPermissionFunc func(role, resource, action string) (bool, error)
	GetPoliciesFunc     func() [][]string
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

func (m *MockPolicyService) AddPolicy(role, resource, action string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, resource, action)
	}
	return nil
}

func (m *MockPolicyService) RemovePolicy(role, resource, action string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, resource, action)
	}
	return nil
}

// CheckPermission allows admins everything by default
func (m *MockPolicyService) CheckPermission(role, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, resource, action)
	}
	return role == domain.RoleAdmin, nil
}

func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{
		{"role_admin", "/admin/*", "(GET|POST|PUT|DELETE)"},
		{"role_doctor", "/admin/appointments", "GET"},
	}
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
