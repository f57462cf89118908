package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/aarogyam/domain"
)

func TestOTPServiceImpl_Send(t *testing.T) {
	tests := []struct {
		name          string
		phone         string
		setup         func(f *otpFixture)
		expectedError error
		validate      func(t *testing.T, f *otpFixture, c *domain.OTPChallenge)
	}{
		{
			name:  "local code stored and delivered",
			phone: "9876543210",
			validate: func(t *testing.T, f *otpFixture, c *domain.OTPChallenge) {
				assert.Equal(t, "123456", c.Code)
				assert.Equal(t, "+919876543210", c.Phone)
				assert.Equal(t, f.clock.Add(10*time.Minute), c.ExpiresAt)

				stored, err := f.repo.FindByID(context.Background(), 1)
				require.NoError(t, err)
				assert.Equal(t, "123456", stored.OTPCode)
				require.Len(t, f.notifier.SMS, 1)
				assert.Contains(t, f.notifier.SMS[0].Body, "123456")
				assert.Equal(t, 30*time.Second, f.throttle.Marked["+919876543210"])
			},
		},
		{
			name:          "unknown phone must register first",
			phone:         "1111111111",
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "empty phone",
			phone:         "  ",
			expectedError: domain.ErrValidation,
		},
		{
			name:  "inside resend window",
			phone: "9876543210",
			setup: func(f *otpFixture) {
				f.throttle.Marked["+919876543210"] = 20 * time.Second
			},
			expectedError: domain.ErrOTPResendLimit,
		},
		{
			name:  "throttle outage does not block",
			phone: "9876543210",
			setup: func(f *otpFixture) {
				f.throttle.CanResendFunc = func(ctx context.Context, phone string) (bool, int64, error) {
					return false, 0, errors.New("redis down")
				}
			},
			validate: func(t *testing.T, f *otpFixture, c *domain.OTPChallenge) {
				assert.Equal(t, "123456", c.Code)
			},
		},
		{
			name:  "external provider clears stale local code",
			phone: "+919876543210",
			setup: func(f *otpFixture) {
				f.provider.IssueFunc = func(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
					return &domain.OTPChallenge{Phone: phone, Reference: "VE123"}, nil
				}
				require.NoError(t, f.repo.UpdateOTP(context.Background(), 1, "999999", timePtr(f.clock.Add(time.Minute))))
			},
			validate: func(t *testing.T, f *otpFixture, c *domain.OTPChallenge) {
				assert.Empty(t, c.Code)
				assert.Equal(t, "VE123", c.Reference)
				stored, _ := f.repo.FindByID(context.Background(), 1)
				assert.Empty(t, stored.OTPCode)
				assert.Nil(t, stored.OTPExpiresAt)
				assert.Empty(t, f.notifier.SMS)
			},
		},
		{
			name:  "upstream failure",
			phone: "9876543210",
			setup: func(f *otpFixture) {
				f.provider.IssueFunc = func(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
					return nil, domain.ErrOTPUpstream
				}
			},
			expectedError: domain.ErrUpstream,
		},
		{
			name:  "sms failure is not fatal",
			phone: "9876543210",
			setup: func(f *otpFixture) {
				f.notifier.SendSMSFunc = func(ctx context.Context, to, message string) error {
					return errors.New("twilio 500")
				}
			},
			validate: func(t *testing.T, f *otpFixture, c *domain.OTPChallenge) {
				assert.Equal(t, "123456", c.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createOTPServiceForTest(t)
			f.repo.Seed(createValidIdentity(t))
			if tt.setup != nil {
				tt.setup(f)
			}

			challenge, err := f.svc.Send(context.Background(), tt.phone)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, challenge)
				return
			}
			require.NoError(t, err)
			tt.validate(t, f, challenge)
		})
	}
}

func TestOTPServiceImpl_Verify_SingleUse(t *testing.T) {
	f := createOTPServiceForTest(t)
	f.repo.Seed(createValidIdentity(t))
	ctx := context.Background()

	_, err := f.svc.Send(ctx, "9876543210")
	require.NoError(t, err)

	identity, err := f.svc.Verify(ctx, "98765 43210", "123456")
	require.NoError(t, err)
	assert.Equal(t, uint(1), identity.ID)
	assert.Empty(t, identity.OTPCode)

	_, err = f.svc.Verify(ctx, "9876543210", "123456")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
	assert.Equal(t, []domain.AuditEventType{
		domain.OTPRequestEvent, domain.OTPVerifyEvent, domain.OTPFailureEvent,
	}, f.audit.Types())
}

func TestOTPServiceImpl_Verify(t *testing.T) {
	tests := []struct {
		name          string
		code          string
		advance       time.Duration
		setup         func(f *otpFixture)
		expectedError error
		keepsCode     bool
	}{
		{name: "correct code", code: "123456"},
		{name: "wrong code keeps challenge", code: "654321", expectedError: domain.ErrOTPInvalid, keepsCode: true},
		{name: "matching code after expiry", code: "123456", advance: 11 * time.Minute, expectedError: domain.ErrOTPExpired},
		{name: "empty code", code: "", expectedError: domain.ErrValidation, keepsCode: true},
		{
			name: "external provider approves",
			code: "777777",
			setup: func(f *otpFixture) {
				f.provider.CheckFunc = func(ctx context.Context, phone, code string) (bool, error) {
					return code == "777777", nil
				}
			},
			keepsCode: true,
		},
		{
			name: "external provider rejects",
			code: "123456",
			setup: func(f *otpFixture) {
				f.provider.CheckFunc = func(ctx context.Context, phone, code string) (bool, error) {
					return false, nil
				}
			},
			expectedError: domain.ErrOTPInvalid,
			keepsCode:     true,
		},
		{
			name: "external provider unreachable",
			code: "123456",
			setup: func(f *otpFixture) {
				f.provider.CheckFunc = func(ctx context.Context, phone, code string) (bool, error) {
					return false, domain.ErrOTPUpstream
				}
			},
			expectedError: domain.ErrUpstream,
			keepsCode:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createOTPServiceForTest(t)
			f.repo.Seed(createValidIdentity(t))
			ctx := context.Background()
			_, err := f.svc.Send(ctx, "9876543210")
			require.NoError(t, err)
			if tt.setup != nil {
				tt.setup(f)
			}
			f.clock = f.clock.Add(tt.advance)

			identity, err := f.svc.Verify(ctx, "9876543210", tt.code)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, identity)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "+919876543210", identity.Phone)
			}

			stored, err := f.repo.FindByID(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.keepsCode, stored.OTPCode != "")
		})
	}
}

func TestOTPServiceImpl_Verify_UnknownPhone(t *testing.T) {
	f := createOTPServiceForTest(t)

	_, err := f.svc.Verify(context.Background(), "9876543210", "123456")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOTPServiceImpl_ReissueInvalidatesPreviousCode(t *testing.T) {
	f := createOTPServiceForTest(t)
	f.repo.Seed(createValidIdentity(t))
	ctx := context.Background()

	_, err := f.svc.Send(ctx, "9876543210")
	require.NoError(t, err)

	f.provider.Code = "222222"
	f.clock = f.clock.Add(time.Minute)
	delete(f.throttle.Marked, "+919876543210")
	_, err = f.svc.Send(ctx, "9876543210")
	require.NoError(t, err)

	_, err = f.svc.Verify(ctx, "9876543210", "123456")
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)

	_, err = f.svc.Verify(ctx, "9876543210", "222222")
	assert.NoError(t, err)
}

func timePtr(t time.Time) *time.Time { return &t }
