package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/you/aarogyam/domain"
)

// MockIdentityRepository implements domain.IdentityRepository. Without
// overrides it behaves as an in-memory store that enforces email and phone
// uniqueness.
type MockIdentityRepository struct {
	CreateFunc      func(ctx context.Context, identity *domain.Identity) error
	FindByEmailFunc func(ctx context.Context, email string) (*domain.Identity, error)
	FindByPhoneFunc func(ctx context.Context, phone string) (*domain.Identity, error)
	FindByIDFunc    func(ctx context.Context, id uint) (*domain.Identity, error)
	UpdateFunc      func(ctx context.Context, identity *domain.Identity, fields []domain.IdentityField) error
	UpdateOTPFunc   func(ctx context.Context, id uint, code string, expiresAt *time.Time) error
	DeleteFunc      func(ctx context.Context, id uint) error
	ListFunc        func(ctx context.Context, filter domain.IdentityFilter) ([]*domain.Identity, error)
	CountByRoleFunc func(ctx context.Context, role string) (int64, error)

	mu     sync.Mutex
	nextID uint
	rows   map[uint]*domain.Identity
}

// Compile-time interface compliance verification
var _ domain.IdentityRepository = (*MockIdentityRepository)(nil)

// NewMockIdentityRepository creates an empty in-memory repository
func NewMockIdentityRepository() *MockIdentityRepository {
	return &MockIdentityRepository{rows: map[uint]*domain.Identity{}}
}

// Seed stores identities as-is, assigning IDs where missing (test helper)
func (m *MockIdentityRepository) Seed(identities ...*domain.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range identities {
		if i.ID == 0 {
			m.nextID++
			i.ID = m.nextID
		} else if i.ID > m.nextID {
			m.nextID = i.ID
		}
		m.rows[i.ID] = clone(i)
	}
}

func (m *MockIdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, identity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUnique(identity); err != nil {
		return err
	}
	m.nextID++
	identity.ID = m.nextID
	now := time.Now()
	identity.CreatedAt = now
	identity.UpdatedAt = now
	m.rows[identity.ID] = clone(identity)
	return nil
}

func (m *MockIdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return m.find(func(i *domain.Identity) bool { return email != "" && i.Email == email })
}

func (m *MockIdentityRepository) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return m.find(func(i *domain.Identity) bool { return phone != "" && i.Phone == phone })
}

func (m *MockIdentityRepository) FindByID(ctx context.Context, id uint) (*domain.Identity, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.find(func(i *domain.Identity) bool { return i.ID == id })
}

func (m *MockIdentityRepository) Update(ctx context.Context, identity *domain.Identity, fields []domain.IdentityField) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, identity, fields)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[identity.ID]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	if err := m.checkUnique(identity); err != nil {
		return err
	}
	for _, f := range fields {
		switch f {
		case domain.FieldName:
			row.Name = identity.Name
		case domain.FieldEmail:
			row.Email = identity.Email
		case domain.FieldPhone:
			row.Phone = identity.Phone
		case domain.FieldRole:
			row.Role = identity.Role
		case domain.FieldBloodGroup:
			row.Health.BloodGroup = identity.Health.BloodGroup
		case domain.FieldHeight:
			row.Health.Height = identity.Health.Height
		case domain.FieldWeight:
			row.Health.Weight = identity.Health.Weight
		case domain.FieldAllergies:
			row.Health.Allergies = append([]string(nil), identity.Health.Allergies...)
		case domain.FieldLocation:
			row.Health.Location = identity.Health.Location
		case domain.FieldAdditionalHealthInfo:
			row.Health.AdditionalInfo = identity.Health.AdditionalInfo
		}
	}
	row.UpdatedAt = time.Now()
	identity.UpdatedAt = row.UpdatedAt
	return nil
}

func (m *MockIdentityRepository) UpdateOTP(ctx context.Context, id uint, code string, expiresAt *time.Time) error {
	if m.UpdateOTPFunc != nil {
		return m.UpdateOTPFunc(ctx, id, code, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	if expiresAt == nil {
		row.ClearOTP()
	} else {
		row.SetOTP(code, *expiresAt)
	}
	return nil
}

func (m *MockIdentityRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrIdentityNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *MockIdentityRepository) List(ctx context.Context, filter domain.IdentityFilter) ([]*domain.Identity, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Identity
	for _, row := range m.rows {
		if filter.ExcludeRole != "" && row.Role == filter.ExcludeRole {
			continue
		}
		out = append(out, clone(row))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out, nil
}

func (m *MockIdentityRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx, role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, row := range m.rows {
		if row.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *MockIdentityRepository) find(match func(*domain.Identity) bool) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if match(row) {
			return clone(row), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (m *MockIdentityRepository) checkUnique(identity *domain.Identity) error {
	for _, row := range m.rows {
		if row.ID == identity.ID {
			continue
		}
		if identity.Email != "" && row.Email == identity.Email {
			return domain.Conflict("email already registered")
		}
		if identity.Phone != "" && row.Phone == identity.Phone {
			return domain.Conflict("phone number already registered")
		}
	}
	return nil
}

func clone(i *domain.Identity) *domain.Identity {
	c := *i
	if i.OTPExpiresAt != nil {
		t := *i.OTPExpiresAt
		c.OTPExpiresAt = &t
	}
	return &c
}
