package mocks

import (
	"context"

	"github.com/you/aarogyam/domain"
)

// MockAdminService implements domain.AdminService interface for testing
type MockAdminService struct {
	ListUsersFunc  func(ctx context.Context) ([]*domain.Identity, error)
	GetUserFunc    func(ctx context.Context, id uint) (*domain.Identity, error)
	CreateUserFunc func(ctx context.Context, in domain.RegisterInput, role string) (*domain.Identity, error)
	UpdateUserFunc func(ctx context.Context, actorID, id uint, patch domain.IdentityPatch) (*domain.Identity, error)
	DeleteUserFunc func(ctx context.Context, actorID, id uint) error
}

func (m *MockAdminService) ListUsers(ctx context.Context) ([]*domain.Identity, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return []*domain.Identity{}, nil
}

func (m *MockAdminService) GetUser(ctx context.Context, id uint) (*domain.Identity, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return &domain.Identity{ID: id, Name: "Test User", Role: domain.RolePatient}, nil
}

func (m *MockAdminService) CreateUser(ctx context.Context, in domain.RegisterInput, role string) (*domain.Identity, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, in, role)
	}
	if role == "" {
		role = domain.RolePatient
	}
	return identityFrom(in, role), nil
}

func (m *MockAdminService) UpdateUser(ctx context.Context, actorID, id uint, patch domain.IdentityPatch) (*domain.Identity, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, actorID, id, patch)
	}
	identity := &domain.Identity{ID: id, Name: "Test User", Role: domain.RolePatient}
	if patch.Role != nil {
		identity.Role = *patch.Role
	}
	return identity, nil
}

func (m *MockAdminService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, actorID, id)
	}
	return nil
}

// MockAppointmentService implements domain.AppointmentService interface for testing
type MockAppointmentService struct {
	BookFunc           func(ctx context.Context, userID *uint, in domain.AppointmentInput) (*domain.Appointment, error)
	ListMineFunc       func(ctx context.Context, userID uint) ([]*domain.Appointment, error)
	GetMineFunc        func(ctx context.Context, userID, id uint) (*domain.Appointment, error)
	UpdateMyStatusFunc func(ctx context.Context, userID, id uint, status string) (*domain.Appointment, error)
	CancelFunc         func(ctx context.Context, userID, id uint) (*domain.Appointment, error)
	ListAllFunc        func(ctx context.Context) ([]*domain.Appointment, error)
	GetFunc            func(ctx context.Context, id uint) (*domain.Appointment, error)
	UpdateFunc         func(ctx context.Context, id uint, patch domain.AppointmentPatch) (*domain.Appointment, error)
	DeleteFunc         func(ctx context.Context, id uint) error
}

func (m *MockAppointmentService) Book(ctx context.Context, userID *uint, in domain.AppointmentInput) (*domain.Appointment, error) {
	if m.BookFunc != nil {
		return m.BookFunc(ctx, userID, in)
	}
	return &domain.Appointment{ID: 1, UserID: userID, Name: in.Name, Phone: in.Phone, Email: in.Email, Time: in.Time, Status: domain.AppointmentPending}, nil
}

func (m *MockAppointmentService) ListMine(ctx context.Context, userID uint) ([]*domain.Appointment, error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, userID)
	}
	return []*domain.Appointment{}, nil
}

func (m *MockAppointmentService) GetMine(ctx context.Context, userID, id uint) (*domain.Appointment, error) {
	if m.GetMineFunc != nil {
		return m.GetMineFunc(ctx, userID, id)
	}
	return &domain.Appointment{ID: id, UserID: &userID, Status: domain.AppointmentPending}, nil
}

func (m *MockAppointmentService) UpdateMyStatus(ctx context.Context, userID, id uint, status string) (*domain.Appointment, error) {
	if m.UpdateMyStatusFunc != nil {
		return m.UpdateMyStatusFunc(ctx, userID, id, status)
	}
	return &domain.Appointment{ID: id, UserID: &userID, Status: status}, nil
}

func (m *MockAppointmentService) Cancel(ctx context.Context, userID, id uint) (*domain.Appointment, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, userID, id)
	}
	return &domain.Appointment{ID: id, UserID: &userID, Status: domain.AppointmentCancelled}, nil
}

func (m *MockAppointmentService) ListAll(ctx context.Context) ([]*domain.Appointment, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*domain.Appointment{}, nil
}

func (m *MockAppointmentService) Get(ctx context.Context, id uint) (*domain.Appointment, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &domain.Appointment{ID: id, Status: domain.AppointmentPending}, nil
}

func (m *MockAppointmentService) Update(ctx context.Context, id uint, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	appt := &domain.Appointment{ID: id, Status: domain.AppointmentPending}
	if patch.Status != nil {
		appt.Status = *patch.Status
	}
	return appt, nil
}

func (m *MockAppointmentService) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockReportService implements domain.ReportService interface for testing
type MockReportService struct {
	CreateFunc        func(ctx context.Context, userID uint, in domain.ReportInput) (*domain.MedicalReport, error)
	ListMineFunc      func(ctx context.Context, userID uint) ([]*domain.MedicalReport, error)
	GetMineFunc       func(ctx context.Context, userID, id uint) (*domain.MedicalReport, error)
	UpdateMineFunc    func(ctx context.Context, userID, id uint, patch domain.ReportPatch) (*domain.MedicalReport, error)
	DeleteMineFunc    func(ctx context.Context, userID, id uint) error
	StatsFunc         func(ctx context.Context, userID uint) (*domain.ReportStats, error)
	CreateForFunc     func(ctx context.Context, userID uint, in domain.ReportInput) (*domain.MedicalReport, error)
	ListAllFunc       func(ctx context.Context) ([]*domain.MedicalReport, error)
	GetFunc           func(ctx context.Context, id uint) (*domain.MedicalReport, error)
	UpdateFunc        func(ctx context.Context, id uint, patch domain.ReportPatch) (*domain.MedicalReport, error)
	DeleteFunc        func(ctx context.Context, id uint) error
	AbnormalitiesFunc func(ctx context.Context, userID, id uint) ([]map[string]any, error)
}

func (m *MockReportService) Create(ctx context.Context, userID uint, in domain.ReportInput) (*domain.MedicalReport, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, in)
	}
	return &domain.MedicalReport{ID: 1, UserID: userID, Category: in.Category, Results: in.Results, Attachments: in.Attachments, Notes: in.Notes}, nil
}

func (m *MockReportService) ListMine(ctx context.Context, userID uint) ([]*domain.MedicalReport, error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, userID)
	}
	return []*domain.MedicalReport{}, nil
}

func (m *MockReportService) GetMine(ctx context.Context, userID, id uint) (*domain.MedicalReport, error) {
	if m.GetMineFunc != nil {
		return m.GetMineFunc(ctx, userID, id)
	}
	return &domain.MedicalReport{ID: id, UserID: userID, Category: domain.ReportBloodTest}, nil
}

func (m *MockReportService) UpdateMine(ctx context.Context, userID, id uint, patch domain.ReportPatch) (*domain.MedicalReport, error) {
	if m.UpdateMineFunc != nil {
		return m.UpdateMineFunc(ctx, userID, id, patch)
	}
	return &domain.MedicalReport{ID: id, UserID: userID, Category: domain.ReportBloodTest}, nil
}

func (m *MockReportService) DeleteMine(ctx context.Context, userID, id uint) error {
	if m.DeleteMineFunc != nil {
		return m.DeleteMineFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockReportService) Stats(ctx context.Context, userID uint) (*domain.ReportStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, userID)
	}
	return &domain.ReportStats{ByType: map[string]int{}, ByMonth: map[string]int{}, RecentReports: []*domain.MedicalReport{}}, nil
}

func (m *MockReportService) Abnormalities(ctx context.Context, userID, id uint) ([]map[string]any, error) {
	if m.AbnormalitiesFunc != nil {
		return m.AbnormalitiesFunc(ctx, userID, id)
	}
	return []map[string]any{}, nil
}

func (m *MockReportService) CreateFor(ctx context.Context, userID uint, in domain.ReportInput) (*domain.MedicalReport, error) {
	if m.CreateForFunc != nil {
		return m.CreateForFunc(ctx, userID, in)
	}
	return m.Create(ctx, userID, in)
}

func (m *MockReportService) ListAll(ctx context.Context) ([]*domain.MedicalReport, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*domain.MedicalReport{}, nil
}

func (m *MockReportService) Get(ctx context.Context, id uint) (*domain.MedicalReport, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &domain.MedicalReport{ID: id, Category: domain.ReportBloodTest}, nil
}

func (m *MockReportService) Update(ctx context.Context, id uint, patch domain.ReportPatch) (*domain.MedicalReport, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return &domain.MedicalReport{ID: id, Category: domain.ReportBloodTest}, nil
}

func (m *MockReportService) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockContactService implements domain.ContactService interface for testing
type MockContactService struct {
	SubmitFunc       func(ctx context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error)
	ListFunc         func(ctx context.Context) ([]*domain.ContactMessage, error)
	UpdateStatusFunc func(ctx context.Context, id uint, status string) (*domain.ContactMessage, error)
	DeleteFunc       func(ctx context.Context, id uint) error
}

func (m *MockContactService) Submit(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, msg)
	}
	msg.ID = 1
	msg.Status = domain.ContactUnread
	return msg, nil
}

func (m *MockContactService) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.ContactMessage{}, nil
}

func (m *MockContactService) UpdateStatus(ctx context.Context, id uint, status string) (*domain.ContactMessage, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return &domain.ContactMessage{ID: id, Status: status}, nil
}

func (m *MockContactService) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var (
	_ domain.AdminService       = (*MockAdminService)(nil)
	_ domain.AppointmentService = (*MockAppointmentService)(nil)
	_ domain.ReportService      = (*MockReportService)(nil)
	_ domain.ContactService     = (*MockContactService)(nil)
)
