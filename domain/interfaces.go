package domain

import (
	"context"
	"time"
)

// IdentityRepository defines identity data access operations
type IdentityRepository interface {
	Create(ctx context.Context, identity *Identity) error
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByPhone(ctx context.Context, phone string) (*Identity, error)
	FindByID(ctx context.Context, id uint) (*Identity, error)
	// Update writes only the listed fields of identity
	Update(ctx context.Context, identity *Identity, fields []IdentityField) error
	UpdateOTP(ctx context.Context, id uint, code string, expiresAt *time.Time) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter IdentityFilter) ([]*Identity, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// IdentityRegistry enforces identity invariants on top of the repository.
// Phones are normalized before every uniqueness check or write.
type IdentityRegistry interface {
	Create(ctx context.Context, identity *Identity) error
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByPhone(ctx context.Context, phone string) (*Identity, error)
	FindByID(ctx context.Context, id uint) (*Identity, error)
	Update(ctx context.Context, id uint, patch IdentityPatch) (*Identity, error)
	SetChallenge(ctx context.Context, id uint, code string, expiresAt time.Time) error
	ClearChallenge(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter IdentityFilter) ([]*Identity, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	RegisterAdmin(ctx context.Context, in RegisterInput, grant AdminGrant) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	LoginWithOTP(ctx context.Context, phone, code string) (*AuthResult, error)
	GetProfile(ctx context.Context, identityID uint) (*Identity, error)
	UpdateProfile(ctx context.Context, identityID uint, patch ProfilePatch) (*Identity, error)
	CheckUser(ctx context.Context, email, phone string) (bool, error)
	CreateIdentity(ctx context.Context, in RegisterInput, role string) (*Identity, error)
}

// AdminService defines administrative identity management
type AdminService interface {
	ListUsers(ctx context.Context) ([]*Identity, error)
	GetUser(ctx context.Context, id uint) (*Identity, error)
	CreateUser(ctx context.Context, in RegisterInput, role string) (*Identity, error)
	UpdateUser(ctx context.Context, actorID, id uint, patch IdentityPatch) (*Identity, error)
	DeleteUser(ctx context.Context, actorID, id uint) error
}

// OTPService drives the per-identity OTP challenge
type OTPService interface {
	Send(ctx context.Context, phone string) (*OTPChallenge, error)
	Verify(ctx context.Context, phone, code string) (*Identity, error)
}

// OTPProvider issues and checks one-time codes. Local providers return
// ErrOTPProviderUnconfigured from Check so the caller compares stored codes.
type OTPProvider interface {
	Issue(ctx context.Context, phone string) (*OTPChallenge, error)
	Check(ctx context.Context, phone, code string) (bool, error)
	Name() string
}

// OTPThrottle limits how often a code can be sent to the same phone
type OTPThrottle interface {
	CanResend(ctx context.Context, phone string) (bool, int64, error)
	MarkSent(ctx context.Context, phone string, window time.Duration) error
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	Issue(identity *Identity) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// TokenClaims represents JWT token claims. Role is deliberately absent.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TokenID   string `json:"jti"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(ctx context.Context, to, message string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}

// AttachmentSigner turns stored attachment keys into client-usable URLs
type AttachmentSigner interface {
	Sign(ctx context.Context, key string) (string, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}

// AppointmentRepository defines appointment data access operations
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	FindByID(ctx context.Context, id uint) (*Appointment, error)
	ListByUser(ctx context.Context, userID uint) ([]*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uint) error
}

// AppointmentService defines appointment business logic
type AppointmentService interface {
	Book(ctx context.Context, userID *uint, in AppointmentInput) (*Appointment, error)
	ListMine(ctx context.Context, userID uint) ([]*Appointment, error)
	GetMine(ctx context.Context, userID, id uint) (*Appointment, error)
	UpdateMyStatus(ctx context.Context, userID, id uint, status string) (*Appointment, error)
	Cancel(ctx context.Context, userID, id uint) (*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	Get(ctx context.Context, id uint) (*Appointment, error)
	Update(ctx context.Context, id uint, patch AppointmentPatch) (*Appointment, error)
	Delete(ctx context.Context, id uint) error
}

// ReportRepository defines medical report data access operations
type ReportRepository interface {
	Create(ctx context.Context, r *MedicalReport) error
	FindByID(ctx context.Context, id uint) (*MedicalReport, error)
	ListByUser(ctx context.Context, userID uint) ([]*MedicalReport, error)
	ListAll(ctx context.Context) ([]*MedicalReport, error)
	Update(ctx context.Context, r *MedicalReport) error
	Delete(ctx context.Context, id uint) error
}

// ReportService defines medical report business logic
type ReportService interface {
	Create(ctx context.Context, userID uint, in ReportInput) (*MedicalReport, error)
	ListMine(ctx context.Context, userID uint) ([]*MedicalReport, error)
	GetMine(ctx context.Context, userID, id uint) (*MedicalReport, error)
	UpdateMine(ctx context.Context, userID, id uint, patch ReportPatch) (*MedicalReport, error)
	DeleteMine(ctx context.Context, userID, id uint) error
	Stats(ctx context.Context, userID uint) (*ReportStats, error)
	Abnormalities(ctx context.Context, userID, id uint) ([]map[string]any, error)
	CreateFor(ctx context.Context, userID uint, in ReportInput) (*MedicalReport, error)
	ListAll(ctx context.Context) ([]*MedicalReport, error)
	Get(ctx context.Context, id uint) (*MedicalReport, error)
	Update(ctx context.Context, id uint, patch ReportPatch) (*MedicalReport, error)
	Delete(ctx context.Context, id uint) error
}

// ContactRepository defines contact message data access operations
type ContactRepository interface {
	Create(ctx context.Context, m *ContactMessage) error
	FindByID(ctx context.Context, id uint) (*ContactMessage, error)
	List(ctx context.Context) ([]*ContactMessage, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

// ContactService defines contact message business logic
type ContactService interface {
	Submit(ctx context.Context, m *ContactMessage) (*ContactMessage, error)
	List(ctx context.Context) ([]*ContactMessage, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*ContactMessage, error)
	Delete(ctx context.Context, id uint) error
}
