package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/aarogyam/domain"
)

var errContactNotFound = domain.NotFound("message not found")

// DBContactMessage is the database model for ContactMessage
type DBContactMessage struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null"`
	Subject   string `gorm:"size:255;not null"`
	Message   string `gorm:"type:text;not null"`
	Status    string `gorm:"index;size:16;not null;default:unread"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DBContactMessage) TableName() string { return "contact_messages" }

// ContactRepositoryImpl implements domain.ContactRepository using GORM
type ContactRepositoryImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) domain.ContactRepository {
	return &ContactRepositoryImpl{db: db}
}

func (r *ContactRepositoryImpl) Create(ctx context.Context, m *domain.ContactMessage) error {
	row := &DBContactMessage{
		Name:    m.Name,
		Email:   m.Email,
		Subject: m.Subject,
		Message: m.Message,
		Status:  m.Status,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	return nil
}

func (r *ContactRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.ContactMessage, error) {
	var row DBContactMessage
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errContactNotFound
		}
		return nil, err
	}
	return contactToDomain(&row), nil
}

func (r *ContactRepositoryImpl) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	var rows []DBContactMessage
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.ContactMessage, 0, len(rows))
	for i := range rows {
		out = append(out, contactToDomain(&rows[i]))
	}
	return out, nil
}

func (r *ContactRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&DBContactMessage{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errContactNotFound
	}
	return nil
}

func (r *ContactRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBContactMessage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errContactNotFound
	}
	return nil
}

func contactToDomain(row *DBContactMessage) *domain.ContactMessage {
	return &domain.ContactMessage{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Subject:   row.Subject,
		Message:   row.Message,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}
}
