package auth

import (
	"context"
	"strings"
	"sync"

	"logitrack/pkg/platform/sentinel"
)

// InMemoryUserStore keeps accounts keyed by lowercased email.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]User)}
}

func (s *InMemoryUserStore) Save(_ context.Context, user User) error {
	key := strings.ToLower(user.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; ok {
		return sentinel.ErrConflict
	}
	s.users[key] = user
	return nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[strings.ToLower(email)]; ok {
		return user, nil
	}
	return User{}, sentinel.ErrNotFound
}
