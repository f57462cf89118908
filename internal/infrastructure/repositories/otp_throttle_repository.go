package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/aarogyam/domain"
)

// OTPThrottleRepositoryImpl implements domain.OTPThrottle using Redis key TTLs
type OTPThrottleRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewOTPThrottleRepository creates a new Redis-backed resend throttle
func NewOTPThrottleRepository(client *redis.Client) domain.OTPThrottle {
	return &OTPThrottleRepositoryImpl{
		client: client,
		prefix: "otp:res:",
	}
}

// CanResend implements domain.OTPThrottle. The second value is the number
// of seconds left before another code may be sent.
func (r *OTPThrottleRepositoryImpl) CanResend(ctx context.Context, phone string) (bool, int64, error) {
	ttl, err := r.client.TTL(ctx, r.prefix+phone).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// -2 missing, -1 no expiry
	if ttl <= 0 {
		return true, 0, nil
	}

	secs := int64(ttl.Seconds())
	if secs == 0 {
		secs = 1
	}
	return false, secs, nil
}

// MarkSent implements domain.OTPThrottle
func (r *OTPThrottleRepositoryImpl) MarkSent(ctx context.Context, phone string, window time.Duration) error {
	if window <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+phone, 1, window).Err(); err != nil {
		return fmt.Errorf("failed to set resend throttle: %w", err)
	}
	return nil
}
