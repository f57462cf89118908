package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/you/aarogyam/domain"
)

// ZapAuditLogger writes audit events as structured log entries
type ZapAuditLogger struct {
	log *zap.Logger
}

func NewAuditLogger(log *zap.Logger) domain.AuditLogger {
	return &ZapAuditLogger{log: log.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (a *ZapAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if event.RequestID == "" {
		event.RequestID = domain.RequestIDFromContext(ctx)
	}
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Uint("user_id", event.UserID),
		zap.Bool("success", event.Success),
		zap.Time("event_time", event.Timestamp),
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.Phone != "" {
		fields = append(fields, zap.String("phone", maskPhone(event.Phone)))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.ErrorMsg != "" {
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	if event.Success {
		a.log.Info("audit", fields...)
	} else {
		a.log.Warn("audit", fields...)
	}
	return nil
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	masked := []byte(phone)
	for i := 0; i < len(masked)-4; i++ {
		if masked[i] != '+' {
			masked[i] = '*'
		}
	}
	return string(masked)
}
