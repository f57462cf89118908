package mocks

import (
	"fmt"
	"strings"

	"github.com/you/aarogyam/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens have the form "token_user_<id>".
type MockTokenService struct {
	IssueFunc    func(identity *domain.Identity) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Issue(identity *domain.Identity) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(identity)
	}
	return fmt.Sprintf("token_user_%d", identity.ID), nil
}

func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	var id uint
	if !strings.HasPrefix(token, "token_user_") {
		return nil, domain.ErrTokenInvalid
	}
	if _, err := fmt.Sscanf(token, "token_user_%d", &id); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	return &domain.TokenClaims{UserID: id, TokenID: token}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
