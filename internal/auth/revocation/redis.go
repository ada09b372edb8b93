package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis tracks revoked JTIs in Redis, letting key TTLs handle aging. Shared
// across instances, which the in-memory store is not.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func revocationKey(jti string) string {
	return "revoked_token:" + jti
}

func (s *Redis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, revocationKey(jti)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return true, nil
}
