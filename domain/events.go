package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// OTP events
	OTPRequestEvent AuditEventType = "OTP_REQUESTED"
	OTPVerifyEvent  AuditEventType = "OTP_VERIFIED"
	OTPFailureEvent AuditEventType = "OTP_VERIFICATION_FAILED"

	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	AdminBootstrapEvent   AuditEventType = "ADMIN_BOOTSTRAPPED"

	// Administration events
	IdentityUpdatedEvent AuditEventType = "IDENTITY_UPDATED"
	IdentityDeletedEvent AuditEventType = "IDENTITY_DELETED"

	// Authorization events
	AccessGrantedEvent AuditEventType = "ACCESS_GRANTED"
	AccessDeniedEvent  AuditEventType = "ACCESS_DENIED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    uint                   `json:"user_id"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records security-relevant events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError marks the event as failed
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

func (e *AuditEvent) WithPhone(phone string) *AuditEvent {
	e.Phone = phone
	return e
}

func (e *AuditEvent) WithRequestID(id string) *AuditEvent {
	e.RequestID = id
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request id for audit correlation.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
