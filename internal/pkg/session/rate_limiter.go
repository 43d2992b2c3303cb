// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

const (
	maxLoginAttempts = 5
	loginWindow      = 15 * time.Minute
)

// CheckLoginAttempt checks if a login attempt is allowed. Allows up to 5
// attempts per IP+email pair per 15 minutes.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error) {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}
	if count == 1 {
		r.client.Expire(ctx, key, loginWindow)
	}

	remaining := int64(maxLoginAttempts) - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= maxLoginAttempts, remaining, nil
}

// ResetLoginAttempts resets the login attempt counter after a success.
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
	return r.client.Del(ctx, key).Err()
}

// CheckAPIRateLimit checks general per-account API rate limiting.
func (r *RateLimiter) CheckAPIRateLimit(ctx context.Context, accountID int64, endpoint string, maxRequests int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:api:%d:%s", accountID, endpoint)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment api rate limit: %w", err)
	}
	if count == 1 {
		r.client.Expire(ctx, key, window)
	}
	return count <= maxRequests, nil
}

// CheckContactAttempt limits contact-form submissions per IP to 3 per hour.
func (r *RateLimiter) CheckContactAttempt(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:contact:%s", ip)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment contact attempt: %w", err)
	}
	if count == 1 {
		r.client.Expire(ctx, key, time.Hour)
	}
	return count <= 3, nil
}
