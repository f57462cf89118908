package mocks

import (
	"context"
	"sync"

	"github.com/you/aarogyam/domain"
)

// SentMessage records one delivered notification
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendSMSFunc   func(ctx context.Context, to, message string) error
	SendEmailFunc func(ctx context.Context, to, subject, body string) error

	mu     sync.Mutex
	SMS    []SentMessage
	Emails []SentMessage
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS records the message unless SendSMSFunc is set
func (m *MockNotificationService) SendSMS(ctx context.Context, to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(ctx, to, message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SMS = append(m.SMS, SentMessage{To: to, Body: message})
	return nil
}

// SendEmail records the message unless SendEmailFunc is set
func (m *MockNotificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emails = append(m.Emails, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
