package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/invoicemaker/backend/internal/config"
)

// RateLimiter throttles repeated login attempts using Redis
type RateLimiter interface {
	// CheckLoginAttempts checks whether the account may attempt another login
	// Returns: allowed bool, used int64, limit int64, error
	CheckLoginAttempts(ctx context.Context, email string) (bool, int64, int64, error)

	// IncrementLoginAttempts records a login attempt for the account
	IncrementLoginAttempts(ctx context.Context, email string) error

	// Close closes the Redis connection
	Close() error
}

type redisRateLimiter struct {
	client *redis.Client
	cfg    *config.Config
	logger *slog.Logger
}

// NewRateLimiter creates a new Redis-based login rate limiter
func NewRateLimiter(cfg *config.Config, logger *slog.Logger) (RateLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDatabase),
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("❌ [RateLimiter] Failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [RateLimiter] Connected to Redis",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
	)

	return &redisRateLimiter{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// NewRateLimiterForTesting wraps a provided redis.Client (for testing)
func NewRateLimiterForTesting(client *redis.Client, cfg *config.Config, logger *slog.Logger) RateLimiter {
	return &redisRateLimiter{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// loginKey generates the Redis key for login attempts
// Format: login:attempts:{email}
func loginKey(email string) string {
	return fmt.Sprintf("login:attempts:%s", email)
}

func (r *redisRateLimiter) CheckLoginAttempts(ctx context.Context, email string) (bool, int64, int64, error) {
	// If limit is 0 or negative, unlimited
	if r.cfg.LoginMaxAttempts <= 0 {
		return true, 0, 0, nil
	}

	key := loginKey(email)
	count, err := r.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return true, 0, r.cfg.LoginMaxAttempts, nil
	}
	if err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to get attempt count", "error", err, "email", email)
		// On error, allow the request but log it
		return true, 0, r.cfg.LoginMaxAttempts, err
	}

	allowed := count < r.cfg.LoginMaxAttempts
	return allowed, count, r.cfg.LoginMaxAttempts, nil
}

func (r *redisRateLimiter) IncrementLoginAttempts(ctx context.Context, email string) error {
	key := loginKey(email)

	pipe := r.client.Pipeline()

	// Increment the counter and refresh the window TTL
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, time.Duration(r.cfg.LoginWindow)*time.Second)

	_, err := pipe.Exec(ctx)
	if err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to increment attempt count", "error", err, "email", email)
		return err
	}

	return nil
}

func (r *redisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOpRateLimiter is a rate limiter that always allows requests
// Used when Redis is not available
type NoOpRateLimiter struct {
	logger *slog.Logger
}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter(logger *slog.Logger) RateLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op rate limiter - login throttling is disabled")
	return &NoOpRateLimiter{logger: logger}
}

func (r *NoOpRateLimiter) CheckLoginAttempts(ctx context.Context, email string) (bool, int64, int64, error) {
	return true, 0, 0, nil
}

func (r *NoOpRateLimiter) IncrementLoginAttempts(ctx context.Context, email string) error {
	return nil
}

func (r *NoOpRateLimiter) Close() error {
	return nil
}
