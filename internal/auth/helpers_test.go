package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/token-service/internal/domain"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testIdentity() domain.Identity {
	return domain.Identity{ID: "u1", Email: "u1@x.com", Role: domain.RoleUser}
}

func newTestKeys(t *testing.T) *KeySet {
	t.Helper()
	keys, err := NewKeySet(testAccessSecret, testRefreshSecret)
	require.NoError(t, err)
	return keys
}

func newTestPair(t *testing.T, keys *KeySet, clock *fakeClock) (*Issuer, *Verifier) {
	t.Helper()
	cfg := TokenConfig{AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour}
	issuer, err := NewIssuer(keys, cfg, WithClock(clock.Now))
	require.NoError(t, err)
	verifier, err := NewVerifier(keys, cfg, WithClock(clock.Now))
	require.NoError(t, err)
	return issuer, verifier
}
