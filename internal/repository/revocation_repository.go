package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:token:"

// RedisRevocationStore records revoked token ids with a TTL equal to their remaining lifetime.
type RedisRevocationStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisRevocationStore wraps a go-redis client. The clock must be the one the
// tokens were issued with; a nil clock means time.Now.
func NewRedisRevocationStore(client redis.Cmdable, now func() time.Time) *RedisRevocationStore {
	if now == nil {
		now = time.Now
	}
	return &RedisRevocationStore{client: client, now: now}
}

// Revoke stores jti with SET NX. It reports false when jti was already revoked.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		// already unusable; nothing to remember
		return true, nil
	}
	return s.client.SetNX(ctx, revokedKeyPrefix+jti, expiresAt.Unix(), ttl).Result()
}

// IsRevoked reports whether jti is on the deny list.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocationStore is the in-process counterpart of RedisRevocationStore.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore returns an empty store. A nil clock means time.Now.
func NewMemoryRevocationStore(now func() time.Time) *MemoryRevocationStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryRevocationStore{revoked: make(map[string]time.Time), now: now}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)
	if _, ok := s.revoked[jti]; ok {
		return false, nil
	}
	if !expiresAt.After(now) {
		return true, nil
	}
	s.revoked[jti] = expiresAt
	return true, nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[jti]
	return ok && exp.After(s.now()), nil
}

func (s *MemoryRevocationStore) prune(now time.Time) {
	for jti, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, jti)
		}
	}
}
