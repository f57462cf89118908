package mocks

import (
	"context"
	"sync"

	"github.com/you/aarogyam/domain"
)

// MockAuditLogger records events in memory
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// Types returns the recorded event types in order (test helper)
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.EventType
	}
	return out
}

var _ domain.AuditLogger = (*MockAuditLogger)(nil)
