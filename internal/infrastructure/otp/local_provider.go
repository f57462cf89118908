package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/you/aarogyam/domain"
)

// LocalProvider generates numeric codes in-process. The caller persists and
// compares them; Check always reports ErrOTPProviderUnconfigured.
type LocalProvider struct {
	length int
}

func NewLocalProvider(length int) *LocalProvider {
	if length <= 0 {
		length = 6
	}
	return &LocalProvider{length: length}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) Issue(_ context.Context, phone string) (*domain.OTPChallenge, error) {
	code, err := p.generateSecureCode()
	if err != nil {
		return nil, err
	}
	return &domain.OTPChallenge{Phone: phone, Code: code}, nil
}

func (p *LocalProvider) Check(context.Context, string, string) (bool, error) {
	return false, domain.ErrOTPProviderUnconfigured
}

// generateSecureCode draws each digit from crypto/rand
func (p *LocalProvider) generateSecureCode() (string, error) {
	digits := make([]byte, p.length)
	for i := range digits {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}

// NewProvider selects the external provider when Twilio Verify is fully
// configured and the local provider otherwise.
func NewProvider(accountSID, authToken, serviceSID string, length int) domain.OTPProvider {
	if accountSID != "" && authToken != "" && serviceSID != "" {
		return NewTwilioVerifyProvider(accountSID, authToken, serviceSID)
	}
	return NewLocalProvider(length)
}
