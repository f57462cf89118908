package notifications

import (
	"context"

	"github.com/you/aarogyam/domain"
)

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type emailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Notifier routes SMS to Twilio and email to SendGrid
type Notifier struct {
	sms   smsSender
	email emailSender
}

// NewNotifier combines the SMS and email channels into one domain.NotificationService
func NewNotifier(sms smsSender, email emailSender) domain.NotificationService {
	return &Notifier{sms: sms, email: email}
}

func (n *Notifier) SendSMS(ctx context.Context, to, message string) error {
	return n.sms.SendSMS(ctx, to, message)
}

func (n *Notifier) SendEmail(ctx context.Context, to, subject, body string) error {
	return n.email.SendEmail(ctx, to, subject, body)
}
