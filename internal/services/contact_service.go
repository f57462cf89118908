package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/you/aarogyam/domain"
)

const (
	minSubjectLength = 3
	minMessageLength = 10
)

// ContactServiceImpl implements domain.ContactService
type ContactServiceImpl struct {
	repo     domain.ContactRepository
	notifier domain.NotificationService
	log      *zap.Logger
}

func NewContactService(repo domain.ContactRepository, notifier domain.NotificationService, log *zap.Logger) domain.ContactService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactServiceImpl{repo: repo, notifier: notifier, log: log}
}

// Submit stores a new unread message and acknowledges it by email
func (s *ContactServiceImpl) Submit(ctx context.Context, m *domain.ContactMessage) (*domain.ContactMessage, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = normalizeEmail(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)

	if err := validateName(m.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(m.Email); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(m.Subject) < minSubjectLength {
		return nil, domain.Invalid("Subject must be at least %d characters", minSubjectLength)
	}
	if utf8.RuneCountInString(m.Message) < minMessageLength {
		return nil, domain.Invalid("Message must be at least %d characters", minMessageLength)
	}

	m.Status = domain.ContactUnread
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	if s.notifier != nil {
		body := fmt.Sprintf("Hi %s,\n\nThank you for contacting Aarogyam. We received your message %q and will get back to you soon.", m.Name, m.Subject)
		if err := s.notifier.SendEmail(ctx, m.Email, "We received your message", body); err != nil {
			s.log.Warn("Failed to send contact acknowledgement", zap.Uint("message_id", m.ID), zap.Error(err))
		}
	}
	return m, nil
}

func (s *ContactServiceImpl) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	return s.repo.List(ctx)
}

func (s *ContactServiceImpl) UpdateStatus(ctx context.Context, id uint, status string) (*domain.ContactMessage, error) {
	if !domain.ValidContactStatus(status) {
		return nil, domain.Invalid("Invalid status %q", status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ContactServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
