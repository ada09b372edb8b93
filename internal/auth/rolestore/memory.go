package rolestore

import (
	"context"
	"sync"

	"kyckaro/pkg/domain"
	"kyckaro/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded role store for tests and local development.
type InMemory struct {
	mu    sync.RWMutex
	roles map[domain.UserID]domain.Role
}

func NewInMemory() *InMemory {
	return &InMemory{roles: make(map[domain.UserID]domain.Role)}
}

func (s *InMemory) FindRole(ctx context.Context, userID domain.UserID) (domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[userID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return role, nil
}

func (s *InMemory) Assign(ctx context.Context, userID domain.UserID, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[userID] = role
	return nil
}
