package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/aarogyam/domain"
)

var errAppointmentNotFound = domain.NotFound("appointment not found")

// DBAppointment is the database model for Appointment
type DBAppointment struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    *uint     `gorm:"index"`
	DoctorID  *uint     `gorm:"index"`
	Name      string    `gorm:"size:255;not null"`
	Gender    string    `gorm:"size:16"`
	Age       int
	Phone     string    `gorm:"size:32;not null"`
	Email     string    `gorm:"size:255;not null"`
	Date      time.Time `gorm:"index;not null"`
	Time      string    `gorm:"size:5;not null"`
	Status    string    `gorm:"index;size:16;not null;default:pending"`
	Reason    string    `gorm:"size:255"`
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DBAppointment) TableName() string { return "appointments" }

// AppointmentRepositoryImpl implements domain.AppointmentRepository using GORM
type AppointmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domain.AppointmentRepository {
	return &AppointmentRepositoryImpl{db: db}
}

func (r *AppointmentRepositoryImpl) Create(ctx context.Context, a *domain.Appointment) error {
	row := appointmentToDB(a)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	a.ID = row.ID
	a.CreatedAt = row.CreatedAt
	return nil
}

func (r *AppointmentRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Appointment, error) {
	var row DBAppointment
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errAppointmentNotFound
		}
		return nil, err
	}
	return appointmentToDomain(&row), nil
}

func (r *AppointmentRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.Appointment, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *AppointmentRepositoryImpl) ListAll(ctx context.Context) ([]*domain.Appointment, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *AppointmentRepositoryImpl) list(q *gorm.DB) ([]*domain.Appointment, error) {
	var rows []DBAppointment
	if err := q.Order("date desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Appointment, 0, len(rows))
	for i := range rows {
		out = append(out, appointmentToDomain(&rows[i]))
	}
	return out, nil
}

func (r *AppointmentRepositoryImpl) Update(ctx context.Context, a *domain.Appointment) error {
	return r.db.WithContext(ctx).Save(appointmentToDB(a)).Error
}

func (r *AppointmentRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBAppointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errAppointmentNotFound
	}
	return nil
}

func appointmentToDB(a *domain.Appointment) *DBAppointment {
	return &DBAppointment{
		ID:        a.ID,
		UserID:    a.UserID,
		DoctorID:  a.DoctorID,
		Name:      a.Name,
		Gender:    a.Gender,
		Age:       a.Age,
		Phone:     a.Phone,
		Email:     a.Email,
		Date:      a.Date,
		Time:      a.Time,
		Status:    a.Status,
		Reason:    a.Reason,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
	}
}

func appointmentToDomain(row *DBAppointment) *domain.Appointment {
	return &domain.Appointment{
		ID:        row.ID,
		UserID:    row.UserID,
		DoctorID:  row.DoctorID,
		Name:      row.Name,
		Gender:    row.Gender,
		Age:       row.Age,
		Phone:     row.Phone,
		Email:     row.Email,
		Date:      row.Date,
		Time:      row.Time,
		Status:    row.Status,
		Reason:    row.Reason,
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt,
	}
}
