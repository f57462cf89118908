package e2e

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/http/handlers"
	testconfig "github.com/you/aarogyam/internal/tests/config"
)

// Session is an authenticated caller
type Session struct {
	Token   string
	Profile *domain.Profile
}

func (s *TestServer) RegisterPassword(t *testing.T, name, email, password string) *Session {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	}).Expect(t, http.StatusCreated)
	return &Session{Token: resp.Body.Token, Profile: resp.Body.User}
}

func (s *TestServer) RegisterPhone(t *testing.T, name, phone string) *Session {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "phone": phone,
	}).Expect(t, http.StatusCreated)
	return &Session{Token: resp.Body.Token, Profile: resp.Body.User}
}

// SendOTP requests a code and returns the development echo of it
func (s *TestServer) SendOTP(t *testing.T, phone string) string {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/auth/send-otp", "", map[string]string{"phone": phone}).Expect(t, http.StatusOK)
	require.Len(t, resp.Body.DevOTP, s.Config.OTP_Length)
	return resp.Body.DevOTP
}

func (s *TestServer) LoginOTP(t *testing.T, phone string) *Session {
	t.Helper()
	code := s.SendOTP(t, phone)
	resp := s.Do(t, http.MethodPost, "/auth/verify-otp", "", map[string]string{
		"phone": phone, "otp": code,
	}).Expect(t, http.StatusOK)
	return &Session{Token: resp.Body.Token, Profile: resp.Body.User}
}

// BootstrapAdmin creates the first admin with the configured bootstrap token
func (s *TestServer) BootstrapAdmin(t *testing.T, name, email string) *Session {
	t.Helper()
	resp := s.DoWithHeaders(t, http.MethodPost, "/auth/register-admin", "", map[string]string{
		"name": name, "email": email, "password": "admin-secret",
	}, map[string]string{handlers.BootstrapTokenHeader: testconfig.BootstrapToken}).Expect(t, http.StatusCreated)
	return &Session{Token: resp.Body.Token, Profile: resp.Body.User}
}

// CreateUser has an admin create an identity with an explicit role and logs it in
func (s *TestServer) CreateUser(t *testing.T, admin *Session, name, email, role string) *Session {
	t.Helper()
	s.Do(t, http.MethodPost, "/admin/users", admin.Token, map[string]string{
		"name": name, "email": email, "password": "secret1", "role": role,
	}).Expect(t, http.StatusCreated)

	resp := s.Do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "secret1",
	}).Expect(t, http.StatusOK)
	return &Session{Token: resp.Body.Token, Profile: resp.Body.User}
}

// ExpireOTP moves the stored challenge expiry into the past
func (s *TestServer) ExpireOTP(t *testing.T, identityID uint, code string) {
	t.Helper()
	past := time.Now().Add(-time.Minute)
	require.NoError(t, s.Container.IdentityRepo.UpdateOTP(context.Background(), identityID, code, &past))
}
