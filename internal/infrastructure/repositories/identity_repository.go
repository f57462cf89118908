package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/you/aarogyam/domain"
)

// IdentityRepositoryImpl implements domain.IdentityRepository using GORM
type IdentityRepositoryImpl struct {
	db *gorm.DB
}

// DBIdentity is the database model for Identity. Email and Phone are
// pointers so absent values are stored as NULL and never collide on the
// unique indexes.
type DBIdentity struct {
	ID                   uint              `gorm:"primaryKey"`
	Name                 string            `gorm:"size:255;not null"`
	Email                *string           `gorm:"uniqueIndex:idx_identities_email;size:255"`
	Phone                *string           `gorm:"uniqueIndex:idx_identities_phone;size:32"`
	PasswordHash         string            `gorm:"column:password"`
	OTPCode              string            `gorm:"column:otp;size:16"`
	OTPExpiresAt         *time.Time        `gorm:"column:otp_expiry"`
	Role                 string            `gorm:"index;size:32;not null;default:patient"`
	BloodGroup           string            `gorm:"size:8"`
	Height               float64
	Weight               float64
	Allergies            []string          `gorm:"serializer:json"`
	Location             string            `gorm:"size:255"`
	AdditionalHealthInfo map[string]string `gorm:"serializer:json"`
	CreatedAt            time.Time         `gorm:"index"`
	UpdatedAt            time.Time
}

// TableName returns the table name for GORM
func (DBIdentity) TableName() string {
	return "identities"
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB) domain.IdentityRepository {
	return &IdentityRepositoryImpl{db: db}
}

// Create implements domain.IdentityRepository. A unique index violation is
// reported as a conflict.
func (r *IdentityRepositoryImpl) Create(ctx context.Context, identity *domain.Identity) error {
	row := r.domainToDB(identity)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return mapWriteError(err)
	}
	identity.ID = row.ID
	identity.CreatedAt = row.CreatedAt
	identity.UpdatedAt = row.UpdatedAt
	return nil
}

// FindByEmail implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(email))
}

// FindByPhone implements domain.IdentityRepository. phone must be canonical.
func (r *IdentityRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

// FindByID implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Identity, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *IdentityRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.Identity, error) {
	var row DBIdentity
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&row), nil
}

// Update implements domain.IdentityRepository. Only the columns behind
// fields are written, so a concurrent role change or OTP clear is never
// overwritten with values read earlier.
func (r *IdentityRepositoryImpl) Update(ctx context.Context, identity *domain.Identity, fields []domain.IdentityField) error {
	if len(fields) == 0 {
		return nil
	}
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := identityColumns[f]
		if !ok {
			return fmt.Errorf("identity field %q is not updatable", f)
		}
		columns = append(columns, col)
	}

	row := r.domainToDB(identity)
	res := r.db.WithContext(ctx).Model(&DBIdentity{ID: identity.ID}).Select(columns).Updates(row)
	if res.Error != nil {
		return mapWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrIdentityNotFound
	}
	identity.UpdatedAt = row.UpdatedAt
	return nil
}

var identityColumns = map[domain.IdentityField]string{
	domain.FieldName:                 "name",
	domain.FieldEmail:                "email",
	domain.FieldPhone:                "phone",
	domain.FieldRole:                 "role",
	domain.FieldBloodGroup:           "blood_group",
	domain.FieldHeight:               "height",
	domain.FieldWeight:               "weight",
	domain.FieldAllergies:            "allergies",
	domain.FieldLocation:             "location",
	domain.FieldAdditionalHealthInfo: "additional_health_info",
}

// UpdateOTP implements domain.IdentityRepository. A nil expiresAt clears the challenge.
func (r *IdentityRepositoryImpl) UpdateOTP(ctx context.Context, id uint, code string, expiresAt *time.Time) error {
	if expiresAt == nil {
		code = ""
	}
	res := r.db.WithContext(ctx).Model(&DBIdentity{}).Where("id = ?", id).
		Updates(map[string]interface{}{"otp": code, "otp_expiry": expiresAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// Delete implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBIdentity{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// List implements domain.IdentityRepository, newest first
func (r *IdentityRepositoryImpl) List(ctx context.Context, filter domain.IdentityFilter) ([]*domain.Identity, error) {
	q := r.db.WithContext(ctx).Order("created_at desc").Order("id desc")
	if filter.ExcludeRole != "" {
		q = q.Where("role <> ?", filter.ExcludeRole)
	}
	var rows []DBIdentity
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Identity, 0, len(rows))
	for i := range rows {
		out = append(out, r.dbToDomain(&rows[i]))
	}
	return out, nil
}

// CountByRole implements domain.IdentityRepository
func (r *IdentityRepositoryImpl) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&DBIdentity{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

// domainToDB converts a domain identity to its database row
func (r *IdentityRepositoryImpl) domainToDB(i *domain.Identity) *DBIdentity {
	return &DBIdentity{
		ID:                   i.ID,
		Name:                 i.Name,
		Email:                nullable(strings.ToLower(i.Email)),
		Phone:                nullable(i.Phone),
		PasswordHash:         i.PasswordHash,
		OTPCode:              i.OTPCode,
		OTPExpiresAt:         i.OTPExpiresAt,
		Role:                 i.Role,
		BloodGroup:           i.Health.BloodGroup,
		Height:               i.Health.Height,
		Weight:               i.Health.Weight,
		Allergies:            i.Health.Allergies,
		Location:             i.Health.Location,
		AdditionalHealthInfo: i.Health.AdditionalInfo,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            i.UpdatedAt,
	}
}

// dbToDomain converts a database row to a domain identity
func (r *IdentityRepositoryImpl) dbToDomain(row *DBIdentity) *domain.Identity {
	return &domain.Identity{
		ID:           row.ID,
		Name:         row.Name,
		Email:        deref(row.Email),
		Phone:        deref(row.Phone),
		PasswordHash: row.PasswordHash,
		OTPCode:      row.OTPCode,
		OTPExpiresAt: row.OTPExpiresAt,
		Role:         row.Role,
		Health: domain.HealthProfile{
			BloodGroup:     row.BloodGroup,
			Height:         row.Height,
			Weight:         row.Weight,
			Allergies:      row.Allergies,
			Location:       row.Location,
			AdditionalInfo: row.AdditionalHealthInfo,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// mapWriteError turns unique violations from Postgres (23505) or SQLite
// into domain conflicts naming the offending field.
func mapWriteError(err error) error {
	if !isDuplicateKey(err) {
		return err
	}
	detail := strings.ToLower(err.Error())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		detail = strings.ToLower(pgErr.ConstraintName + " " + pgErr.Detail)
	}
	switch {
	case strings.Contains(detail, "email"):
		return domain.Conflict("email already registered")
	case strings.Contains(detail, "phone"):
		return domain.Conflict("phone number already registered")
	}
	return domain.Conflict("identity already exists")
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
