package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/invoicemaker/backend/internal/config"
)

// RevocationLedger marks issued bearer tokens as unusable before their
// natural expiry. A revoked token key lives in Redis exactly as long
// as the token itself would have remained valid.
type RevocationLedger struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRevocationLedger connects to Redis and verifies the connection
func NewRevocationLedger(cfg *config.Config, logger *slog.Logger) (*RevocationLedger, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDatabase,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDatabase),
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return &RevocationLedger{
		client: client,
		logger: logger,
	}, nil
}

// NewRevocationLedgerForTesting wraps a provided redis.Client (for testing)
func NewRevocationLedgerForTesting(client *redis.Client, logger *slog.Logger) *RevocationLedger {
	return &RevocationLedger{
		client: client,
		logger: logger,
	}
}

// Close closes the Redis connection
func (r *RevocationLedger) Close() error {
	return r.client.Close()
}

func revocationKey(token string) string {
	return fmt.Sprintf("revoked:%s", token)
}

// Revoke records the raw token string until its remaining validity
// runs out. Tokens with no remaining validity are ignored.
func (r *RevocationLedger) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, revocationKey(token), "invalidated", ttl).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to revoke token", "error", err)
		return err
	}

	r.logger.Debug("🚫 [Redis] Token revoked", "ttl", ttl)
	return nil
}

// IsRevoked reports whether the exact token string was revoked
func (r *RevocationLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := r.client.Get(ctx, revocationKey(token)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to check token revocation", "error", err)
		return false, err
	}
	return true, nil
}

// GetClient returns the underlying Redis client (for advanced use cases)
func (r *RevocationLedger) GetClient() *redis.Client {
	return r.client
}
