package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// UsersMemoryStorage — in-memory реализация UsersStorage.
type UsersMemoryStorage struct {
	mu    sync.RWMutex
	users map[uuid.UUID]storage.User
}

func NewUsersMemoryStorage() *UsersMemoryStorage {
	return &UsersMemoryStorage{
		users: make(map[uuid.UUID]storage.User),
	}
}

func (s *UsersMemoryStorage) CreateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user

	return nil
}

func (s *UsersMemoryStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &u, nil
}

func (s *UsersMemoryStorage) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}

	return nil, storage.ErrNotFound
}

func (s *UsersMemoryStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}

	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user

	return nil
}

func (s *UsersMemoryStorage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}

	return nil, storage.ErrNotFound
}
