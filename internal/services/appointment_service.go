package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/you/aarogyam/domain"
)

// AppointmentServiceImpl implements domain.AppointmentService
type AppointmentServiceImpl struct {
	repo     domain.AppointmentRepository
	phone    domain.PhoneNormalizer
	notifier domain.NotificationService
	log      *zap.Logger
	now      func() time.Time
}

func NewAppointmentService(repo domain.AppointmentRepository, normalizer domain.PhoneNormalizer, notifier domain.NotificationService, log *zap.Logger) domain.AppointmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AppointmentServiceImpl{
		repo:     repo,
		phone:    normalizer,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Book creates a pending appointment. userID is nil for public bookings.
func (s *AppointmentServiceImpl) Book(ctx context.Context, userID *uint, in domain.AppointmentInput) (*domain.Appointment, error) {
	date, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = domain.DefaultAppointmentReason
	}
	a := &domain.Appointment{
		UserID:   userID,
		DoctorID: in.DoctorID,
		Name:     strings.TrimSpace(in.Name),
		Gender:   strings.TrimSpace(in.Gender),
		Age:      in.Age,
		Phone:    s.phone.Normalize(in.Phone),
		Email:    normalizeEmail(in.Email),
		Date:     date,
		Time:     in.Time,
		Status:   domain.AppointmentPending,
		Reason:   reason,
		Notes:    strings.TrimSpace(in.Notes),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.confirm(ctx, a)
	return a, nil
}

func (s *AppointmentServiceImpl) validateInput(in domain.AppointmentInput) (time.Time, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" ||
		strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Time) == "" {
		return time.Time{}, domain.Invalid("Name, phone, email, date and time are required")
	}
	if err := validateEmail(normalizeEmail(in.Email)); err != nil {
		return time.Time{}, err
	}
	if err := validatePhone(in.Phone); err != nil {
		return time.Time{}, err
	}
	if in.Age < 0 {
		return time.Time{}, domain.Invalid("Age must not be negative")
	}
	if err := validateTimeOfDay(in.Time); err != nil {
		return time.Time{}, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return time.Time{}, err
	}
	if date.Before(s.today()) {
		return time.Time{}, domain.Invalid("Appointment date cannot be in the past")
	}
	return date, nil
}

func (s *AppointmentServiceImpl) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *AppointmentServiceImpl) confirm(ctx context.Context, a *domain.Appointment) {
	if s.notifier == nil {
		return
	}
	msg := fmt.Sprintf("Hi %s, your Aarogyam appointment request for %s at %s has been received.",
		a.Name, a.Date.Format(dateLayout), a.Time)
	if err := s.notifier.SendSMS(ctx, a.Phone, msg); err != nil {
		s.log.Warn("Failed to send appointment confirmation", zap.Uint("appointment_id", a.ID), zap.Error(err))
	}
}

func (s *AppointmentServiceImpl) ListMine(ctx context.Context, userID uint) ([]*domain.Appointment, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetMine hides appointments belonging to others behind NotFound
func (s *AppointmentServiceImpl) GetMine(ctx context.Context, userID, id uint) (*domain.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(userID) {
		return nil, domain.NotFound("appointment not found")
	}
	return a, nil
}

func (s *AppointmentServiceImpl) UpdateMyStatus(ctx context.Context, userID, id uint, status string) (*domain.Appointment, error) {
	if !domain.ValidAppointmentStatus(status) {
		return nil, domain.Invalid("Invalid status %q", status)
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(userID) {
		return nil, domain.Forbidden("Not authorized to update this appointment")
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return a, nil
}

// Cancel is only allowed while the appointment is still pending
func (s *AppointmentServiceImpl) Cancel(ctx context.Context, userID, id uint) (*domain.Appointment, error) {
	a, err := s.GetMine(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.AppointmentPending {
		return nil, domain.Invalid("Only pending appointments can be cancelled")
	}
	a.Status = domain.AppointmentCancelled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return a, nil
}

func (s *AppointmentServiceImpl) ListAll(ctx context.Context) ([]*domain.Appointment, error) {
	return s.repo.ListAll(ctx)
}

func (s *AppointmentServiceImpl) Get(ctx context.Context, id uint) (*domain.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AppointmentServiceImpl) Update(ctx context.Context, id uint, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if !domain.ValidAppointmentStatus(*patch.Status) {
			return nil, domain.Invalid("Invalid status %q", *patch.Status)
		}
		a.Status = *patch.Status
	}
	if patch.Date != nil {
		date, err := parseDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		a.Date = date
	}
	if patch.Time != nil {
		if err := validateTimeOfDay(*patch.Time); err != nil {
			return nil, err
		}
		a.Time = *patch.Time
	}
	if patch.Reason != nil {
		a.Reason = strings.TrimSpace(*patch.Reason)
	}
	if patch.Notes != nil {
		a.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.DoctorID != nil {
		a.DoctorID = patch.DoctorID
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return a, nil
}

func (s *AppointmentServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
