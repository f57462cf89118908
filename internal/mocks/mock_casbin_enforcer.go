package mocks

import (
	"fmt"
	"strings"

	"github.com/you/aarogyam/domain"
)

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// Default matching is exact subject, path equality or "/prefix/*" and an
// action list of the form "(GET|PUT)".
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)
	SavePolicyFunc   func() error
	SaveCalls        int
	policies         [][]string
}

// Compile-time interface compliance verification
var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates a new MockCasbinEnforcer with the clinic defaults
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{
		policies: [][]string{
			{"role_admin", "/admin/*", "(GET|POST|PUT|DELETE)"},
			{"role_doctor", "/admin/appointments", "GET"},
		},
	}
}

func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	rule := toRule(params)
	if m.indexOf(rule) >= 0 {
		return false, nil
	}
	m.policies = append(m.policies, rule)
	return true, nil
}

func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	i := m.indexOf(toRule(params))
	if i < 0 {
		return false, nil
	}
	m.policies = append(m.policies[:i], m.policies[i+1:]...)
	return true, nil
}

func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	req := toRule(rvals)
	if len(req) < 3 {
		return false, fmt.Errorf("expected sub, obj, act")
	}
	for _, p := range m.policies {
		if p[0] != req[0] || !matchPath(p[1], req[1]) {
			continue
		}
		for _, act := range strings.Split(strings.Trim(p[2], "()"), "|") {
			if act == req[2] {
				return true, nil
			}
		}
	}
	return false, nil
}

// GetPolicy returns a copy of the stored rules
func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	result := make([][]string, len(m.policies))
	for i, policy := range m.policies {
		result[i] = append([]string(nil), policy...)
	}
	return result, nil
}

func (m *MockCasbinEnforcer) SavePolicy() error {
	m.SaveCalls++
	if m.SavePolicyFunc != nil {
		return m.SavePolicyFunc()
	}
	return nil
}

// SetPolicies sets the internal policies (test helper)
func (m *MockCasbinEnforcer) SetPolicies(policies [][]string) {
	m.policies = make([][]string, len(policies))
	for i, policy := range policies {
		m.policies[i] = append([]string(nil), policy...)
	}
}

func (m *MockCasbinEnforcer) indexOf(rule []string) int {
	for i, p := range m.policies {
		if strings.Join(p, "\x00") == strings.Join(rule, "\x00") {
			return i
		}
	}
	return -1
}

func toRule(params []interface{}) []string {
	rule := make([]string, 0, len(params))
	for _, p := range params {
		s, _ := p.(string)
		rule = append(rule, s)
	}
	return rule
}

func matchPath(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == path
}
