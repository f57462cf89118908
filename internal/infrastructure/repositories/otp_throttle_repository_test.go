package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestOTPThrottleRepositoryImpl(t *testing.T) {
	client, mr := setupTestRedis(t)
	throttle := NewOTPThrottleRepository(client)
	ctx := context.Background()
	phone := "+919876543210"

	ok, wait, err := throttle.CanResend(ctx, phone)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, wait)

	require.NoError(t, throttle.MarkSent(ctx, phone, 30*time.Second))
	assert.True(t, mr.Exists("otp:res:"+phone))

	ok, wait, err = throttle.CanResend(ctx, phone)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.InDelta(t, 30, wait, 1)

	// other phones are unaffected
	ok, _, err = throttle.CanResend(ctx, "+919876543211")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(31 * time.Second)
	ok, _, err = throttle.CanResend(ctx, phone)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPThrottleRepositoryImpl_ZeroWindowDisables(t *testing.T) {
	client, mr := setupTestRedis(t)
	throttle := NewOTPThrottleRepository(client)

	require.NoError(t, throttle.MarkSent(context.Background(), "+911111111111", 0))
	assert.False(t, mr.Exists("otp:res:+911111111111"))
}

func TestOTPThrottleRepositoryImpl_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	throttle := NewOTPThrottleRepository(client)
	mr.Close()

	ok, _, err := throttle.CanResend(context.Background(), "+919876543210")
	assert.Error(t, err)
	assert.False(t, ok)
}
