package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type fakeMessages struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

type fakeMail struct {
	sent   *mail.SGMailV3
	status int
	err    error
}

func (f *fakeMail) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func TestTwilioService_SendSMS(t *testing.T) {
	api := &fakeMessages{}
	svc := NewTwilioService("AC1", "tok", "+15550001111", zap.NewNop())
	svc.api = api

	require.NoError(t, svc.SendSMS(context.Background(), "+919876543210", "hello"))
	require.NotNil(t, api.params)
	assert.Equal(t, "+919876543210", *api.params.To)
	assert.Equal(t, "+15550001111", *api.params.From)
	assert.Equal(t, "hello", *api.params.Body)

	api.err = errors.New("twilio down")
	assert.Error(t, svc.SendSMS(context.Background(), "+919876543210", "hello"))
}

func TestTwilioService_DisabledWithoutFromNumber(t *testing.T) {
	api := &fakeMessages{}
	svc := NewTwilioService("", "", "", zap.NewNop())
	svc.api = api

	assert.False(t, svc.Enabled())
	require.NoError(t, svc.SendSMS(context.Background(), "+919876543210", "hello"))
	assert.Nil(t, api.params, "disabled sender must not call twilio")
}

func TestSendGridService_SendEmail(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		err     error
		wantErr bool
	}{
		{"accepted", 202, nil, false},
		{"rejected", 401, nil, true},
		{"transport error", 0, errors.New("dial tcp"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeMail{status: tt.status, err: tt.err}
			svc := NewSendGridService("SG.key", "clinic@x.com", "Clinic", zap.NewNop())
			svc.client = client

			err := svc.SendEmail(context.Background(), "jane@x.com", "Hi", "Body")
			assert.Equal(t, tt.wantErr, err != nil)
			require.NotNil(t, client.sent)
			assert.Equal(t, "Hi", client.sent.Subject)
		})
	}
}

func TestSendGridService_DisabledWithoutKey(t *testing.T) {
	client := &fakeMail{status: 202}
	svc := NewSendGridService("", "clinic@x.com", "Clinic", zap.NewNop())
	svc.client = client

	require.NoError(t, svc.SendEmail(context.Background(), "jane@x.com", "Hi", "Body"))
	assert.Nil(t, client.sent)
}

func TestNotifier_Routes(t *testing.T) {
	api := &fakeMessages{}
	sms := NewTwilioService("AC1", "tok", "+15550001111", zap.NewNop())
	sms.api = api
	client := &fakeMail{status: 202}
	email := NewSendGridService("SG.key", "clinic@x.com", "Clinic", zap.NewNop())
	email.client = client

	n := NewNotifier(sms, email)
	require.NoError(t, n.SendSMS(context.Background(), "+1", "code"))
	require.NoError(t, n.SendEmail(context.Background(), "a@b.co", "s", "b"))
	assert.NotNil(t, api.params)
	assert.NotNil(t, client.sent)
}
