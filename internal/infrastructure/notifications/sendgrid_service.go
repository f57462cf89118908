package notifications

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridService sends transactional email through SendGrid
type SendGridService struct {
	client   mailClient
	from     *mail.Email
	disabled bool
	log      *zap.Logger
}

// NewSendGridService creates an email sender. Without an API key, emails
// are logged instead of sent.
func NewSendGridService(apiKey, fromEmail, fromName string, log *zap.Logger) *SendGridService {
	return &SendGridService{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromEmail),
		disabled: apiKey == "" || fromEmail == "",
		log:      log.Named("email"),
	}
}

// SendEmail delivers a plain-text email
func (s *SendGridService) SendEmail(ctx context.Context, to, subject, body string) error {
	if s.disabled {
		s.log.Info("email delivery disabled, message logged", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	message := mail.NewSingleEmailPlainText(s.from, subject, mail.NewEmail("", to), body)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	return nil
}
