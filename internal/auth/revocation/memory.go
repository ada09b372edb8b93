package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemory tracks revoked JTIs with their expiry. Expired entries are pruned
// lazily on lookup.
type InMemory struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{revoked: make(map[string]time.Time)}
}

func (s *InMemory) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (s *InMemory) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
