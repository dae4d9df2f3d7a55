package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// BlacklistKey returns the Redis key marking a token ID as revoked.
func BlacklistKey(jti string) string {
	return blacklistPrefix + jti
}

// RevokeToken marks jti as revoked until the token would have expired anyway.
func RevokeToken(ctx context.Context, rdb *redis.Client, jti string, expiresAt time.Time) error {
	if rdb == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := rdb.Set(ctx, BlacklistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether jti has been revoked. A nil client means
// revocation is disabled and reports false; a failing client returns its error.
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, jti string) (bool, error) {
	if rdb == nil || jti == "" {
		return false, nil
	}
	n, err := rdb.Exists(ctx, BlacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}
