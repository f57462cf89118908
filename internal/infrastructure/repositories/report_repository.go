package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/aarogyam/domain"
)

var errReportNotFound = domain.NotFound("report not found")

// DBMedicalReport is the database model for MedicalReport. Results holds
// raw JSON as text so any shape of lab output is accepted.
type DBMedicalReport struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	Category    string    `gorm:"index;size:32;not null"`
	Date        time.Time `gorm:"index;not null"`
	Results     string    `gorm:"type:text"`
	Attachments []string  `gorm:"serializer:json"`
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DBMedicalReport) TableName() string { return "medical_reports" }

// ReportRepositoryImpl implements domain.ReportRepository using GORM
type ReportRepositoryImpl struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) domain.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, m *domain.MedicalReport) error {
	row := reportToDB(m)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	return nil
}

func (r *ReportRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.MedicalReport, error) {
	var row DBMedicalReport
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errReportNotFound
		}
		return nil, err
	}
	return reportToDomain(&row), nil
}

func (r *ReportRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.MedicalReport, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *ReportRepositoryImpl) ListAll(ctx context.Context) ([]*domain.MedicalReport, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *ReportRepositoryImpl) list(q *gorm.DB) ([]*domain.MedicalReport, error) {
	var rows []DBMedicalReport
	if err := q.Order("date desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.MedicalReport, 0, len(rows))
	for i := range rows {
		out = append(out, reportToDomain(&rows[i]))
	}
	return out, nil
}

func (r *ReportRepositoryImpl) Update(ctx context.Context, m *domain.MedicalReport) error {
	return r.db.WithContext(ctx).Save(reportToDB(m)).Error
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBMedicalReport{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errReportNotFound
	}
	return nil
}

func reportToDB(m *domain.MedicalReport) *DBMedicalReport {
	return &DBMedicalReport{
		ID:          m.ID,
		UserID:      m.UserID,
		Category:    m.Category,
		Date:        m.Date,
		Results:     string(m.Results),
		Attachments: m.Attachments,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}

func reportToDomain(row *DBMedicalReport) *domain.MedicalReport {
	m := &domain.MedicalReport{
		ID:          row.ID,
		UserID:      row.UserID,
		Category:    row.Category,
		Date:        row.Date,
		Attachments: row.Attachments,
		Notes:       row.Notes,
		CreatedAt:   row.CreatedAt,
	}
	if row.Results != "" {
		m.Results = json.RawMessage(row.Results)
	}
	return m
}
