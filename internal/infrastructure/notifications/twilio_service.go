package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// messageCreator is the slice of the Twilio Messages API we use
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioService sends plain SMS through the Twilio Messages API
type TwilioService struct {
	api        messageCreator
	fromNumber string
	log        *zap.Logger
}

// NewTwilioService creates a Twilio SMS sender. Without a from number,
// messages are logged instead of sent.
func NewTwilioService(accountSID, authToken, fromNumber string, log *zap.Logger) *TwilioService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioService{
		api:        client.Api,
		fromNumber: fromNumber,
		log:        log.Named("sms"),
	}
}

// Enabled reports whether messages are really delivered.
func (t *TwilioService) Enabled() bool { return t.fromNumber != "" }

// SendSMS delivers message to the given number
func (t *TwilioService) SendSMS(_ context.Context, to, message string) error {
	if !t.Enabled() {
		t.log.Info("sms delivery disabled, message logged", zap.String("to", to), zap.String("body", message))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		t.log.Debug("sms sent", zap.String("sid", *resp.Sid))
	}
	return nil
}
