package memory

import (
	"context"
	"sync"

	"github.com/fulutas/cardaccess/internal/access/store"
	"github.com/fulutas/cardaccess/internal/access/types"
)

// UserStore is an in-memory user registry for tests and dev environments.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]types.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]types.User)}
}

func (s *UserStore) Create(_ context.Context, u types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.CardID]; ok {
		return store.ErrDuplicateCard
	}
	s.users[u.CardID] = u
	return nil
}

func (s *UserStore) Get(_ context.Context, cardID string) (types.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[cardID]
	return u, ok, nil
}
