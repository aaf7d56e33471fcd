package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocationList tracks revoked JWT IDs so logged-out tokens are
// rejected before they expire.
type TokenRevocationList interface {
	// Revoke marks a token's JTI as revoked. ttl should be the remaining
	// time until the token expires.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks whether a token's JTI has been revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenRevocationList implements TokenRevocationList using Redis
type RedisTokenRevocationList struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenRevocationList creates a revocation list backed by an
// existing Redis client.
func NewRedisTokenRevocationList(client *redis.Client) *RedisTokenRevocationList {
	return &RedisTokenRevocationList{
		client:    client,
		keyPrefix: "token:revoked:",
	}
}

func (r *RedisTokenRevocationList) key(jti string) string {
	return r.keyPrefix + jti
}

// Revoke marks a token's JTI as revoked
func (r *RedisTokenRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired, nothing to store
		return nil
	}
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks whether a token's JTI has been revoked
func (r *RedisTokenRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

var _ TokenRevocationList = (*RedisTokenRevocationList)(nil)

// InMemoryTokenRevocationList provides an in-memory implementation for
// tests and single-instance deployments.
type InMemoryTokenRevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time // JTI -> expiration time
}

// NewInMemoryTokenRevocationList creates a new in-memory revocation list
func NewInMemoryTokenRevocationList() *InMemoryTokenRevocationList {
	return &InMemoryTokenRevocationList{
		revoked: make(map[string]time.Time),
	}
}

// Revoke marks a token's JTI as revoked
func (m *InMemoryTokenRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks whether a token's JTI has been revoked
func (m *InMemoryTokenRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiration, exists := m.revoked[jti]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiration) {
		delete(m.revoked, jti)
		return false, nil
	}
	return true, nil
}

var _ TokenRevocationList = (*InMemoryTokenRevocationList)(nil)
