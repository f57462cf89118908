package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/you/aarogyam/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error)
	RegisterAdminFunc  func(ctx context.Context, in domain.RegisterInput, grant domain.AdminGrant) (*domain.AuthResult, error)
	LoginFunc          func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LoginWithOTPFunc   func(ctx context.Context, phone, code string) (*domain.AuthResult, error)
	GetProfileFunc     func(ctx context.Context, identityID uint) (*domain.Identity, error)
	UpdateProfileFunc  func(ctx context.Context, identityID uint, patch domain.ProfilePatch) (*domain.Identity, error)
	CheckUserFunc      func(ctx context.Context, email, phone string) (bool, error)
	CreateIdentityFunc func(ctx context.Context, in domain.RegisterInput, role string) (*domain.Identity, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return resultFor(identityFrom(in, domain.RolePatient)), nil
}

func (m *MockAuthService) RegisterAdmin(ctx context.Context, in domain.RegisterInput, grant domain.AdminGrant) (*domain.AuthResult, error) {
	if m.RegisterAdminFunc != nil {
		return m.RegisterAdminFunc(ctx, in, grant)
	}
	return resultFor(identityFrom(in, domain.RoleAdmin)), nil
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return resultFor(&domain.Identity{ID: 1, Name: "Test User", Email: email, Role: domain.RolePatient, CreatedAt: time.Now()}), nil
}

func (m *MockAuthService) LoginWithOTP(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	if m.LoginWithOTPFunc != nil {
		return m.LoginWithOTPFunc(ctx, phone, code)
	}
	return resultFor(&domain.Identity{ID: 1, Name: "Test User", Phone: phone, Role: domain.RolePatient, CreatedAt: time.Now()}), nil
}

func (m *MockAuthService) GetProfile(ctx context.Context, identityID uint) (*domain.Identity, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, identityID)
	}
	return &domain.Identity{ID: identityID, Name: "Test User", Email: "test@example.com", Role: domain.RolePatient}, nil
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, identityID uint, patch domain.ProfilePatch) (*domain.Identity, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, identityID, patch)
	}
	identity := &domain.Identity{ID: identityID, Name: "Test User", Role: domain.RolePatient}
	if patch.Name != nil {
		identity.Name = *patch.Name
	}
	return identity, nil
}

func (m *MockAuthService) CheckUser(ctx context.Context, email, phone string) (bool, error) {
	if m.CheckUserFunc != nil {
		return m.CheckUserFunc(ctx, email, phone)
	}
	return false, nil
}

func (m *MockAuthService) CreateIdentity(ctx context.Context, in domain.RegisterInput, role string) (*domain.Identity, error) {
	if m.CreateIdentityFunc != nil {
		return m.CreateIdentityFunc(ctx, in, role)
	}
	return identityFrom(in, role), nil
}

func identityFrom(in domain.RegisterInput, role string) *domain.Identity {
	identity := &domain.Identity{
		ID:        1,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if in.Password != "" {
		identity.PasswordHash = "hashed_" + in.Password
	}
	return identity
}

func resultFor(identity *domain.Identity) *domain.AuthResult {
	return &domain.AuthResult{Identity: identity, Token: fmt.Sprintf("token_user_%d", identity.ID)}
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
