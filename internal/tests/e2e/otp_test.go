package e2e

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/aarogyam/internal/config"
)

func TestE2E_OTPResendWindow(t *testing.T) {
	s := NewTestServer(t)
	s.RegisterPhone(t, "Raj", "9876543210")

	first := s.SendOTP(t, "9876543210")

	throttled := s.Do(t, http.MethodPost, "/auth/send-otp", "", map[string]string{"phone": "+91 98765 43210"}).
		Expect(t, http.StatusTooManyRequests)
	assert.Contains(t, throttled.Body.Message, "seconds")
	assert.Empty(t, throttled.Body.DevOTP)

	s.Redis.FastForward(s.Config.OTP_ResendWindow + time.Second)

	second := s.SendOTP(t, "9876543210")

	// the newer code replaces the first one
	if first != second {
		s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
			"phone": "9876543210", "otp": first,
		}).Expect(t, http.StatusBadRequest)
	}
	s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
		"phone": "9876543210", "otp": second,
	}).Expect(t, http.StatusOK)
}

func TestE2E_OTPExpired(t *testing.T) {
	s := NewTestServer(t)
	raj := s.RegisterPhone(t, "Raj", "9876543210")

	code := s.SendOTP(t, "9876543210")
	s.ExpireOTP(t, raj.Profile.ID, code)

	expired := s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
		"phone": "9876543210", "otp": code,
	}).Expect(t, http.StatusBadRequest)
	assert.Contains(t, expired.Body.Message, "expired")

	// an expired challenge is cleared, so the same code stays rejected
	again := s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
		"phone": "9876543210", "otp": code,
	}).Expect(t, http.StatusBadRequest)
	assert.NotContains(t, again.Body.Message, "expired")
}

func TestE2E_OTPFailures(t *testing.T) {
	s := NewTestServer(t)
	s.RegisterPhone(t, "Raj", "9876543210")
	code := s.SendOTP(t, "9876543210")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	tests := []struct {
		name   string
		path   string
		body   map[string]string
		status int
	}{
		{"send to unknown phone", "/auth/send-otp", map[string]string{"phone": "9000000009"}, http.StatusNotFound},
		{"send without phone", "/auth/send-otp", map[string]string{}, http.StatusBadRequest},
		{"verify unknown phone", "/auth/verify-otp", map[string]string{"phone": "9000000009", "otp": "123456"}, http.StatusNotFound},
		{"verify wrong code", "/auth/verify-otp", map[string]string{"phone": "9876543210", "otp": wrong}, http.StatusBadRequest},
		{"verify without code", "/auth/verify-otp", map[string]string{"phone": "9876543210"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Do(t, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.status, resp.Status, resp.Body.Message)
			assert.False(t, resp.Body.Success)
			assert.Empty(t, resp.Body.Token)
		})
	}

	// a wrong guess does not burn the live code
	ok := s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
		"phone": "9876543210", "otp": code,
	}).Expect(t, http.StatusOK)
	require.NotEmpty(t, ok.Body.Token)
}

func TestE2E_OTPHiddenInProduction(t *testing.T) {
	s := NewTestServer(t, func(cfg *config.Config) {
		cfg.Env = config.EnvProduction
	})
	s.RegisterPhone(t, "Raj", "9876543210")

	resp := s.Do(t, http.MethodPost, "/auth/send-otp", "", map[string]string{"phone": "9876543210"}).Expect(t, http.StatusOK)
	assert.Empty(t, resp.Body.DevOTP)
	assert.NotContains(t, resp.Raw, "devOtp")
}
