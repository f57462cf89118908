package otp

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/you/aarogyam/domain"
)

const statusApproved = "approved"

type verifyAPI interface {
	CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error)
}

// TwilioVerifyProvider delegates code delivery and checking to Twilio Verify
type TwilioVerifyProvider struct {
	api        verifyAPI
	serviceSID string
}

// NewTwilioVerifyProvider creates an external-mode provider
func NewTwilioVerifyProvider(accountSID, authToken, serviceSID string) *TwilioVerifyProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioVerifyProvider{api: client.VerifyV2, serviceSID: serviceSID}
}

func (p *TwilioVerifyProvider) Name() string { return "twilio-verify" }

// Issue starts an SMS verification. The returned challenge carries the
// verification SID as its reference and no code.
func (p *TwilioVerifyProvider) Issue(_ context.Context, phone string) (*domain.OTPChallenge, error) {
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	v, err := p.api.CreateVerification(p.serviceSID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOTPUpstream, err)
	}
	ch := &domain.OTPChallenge{Phone: phone}
	if v != nil && v.Sid != nil {
		ch.Reference = *v.Sid
	}
	return ch, nil
}

// Check asks Twilio whether code is approved for phone
func (p *TwilioVerifyProvider) Check(_ context.Context, phone, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	res, err := p.api.CreateVerificationCheck(p.serviceSID, params)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrOTPUpstream, err)
	}
	return res != nil && res.Status != nil && *res.Status == statusApproved, nil
}
