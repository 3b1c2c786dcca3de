package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// CalorieLogsMemoryStorage — in-memory реализация CalorieLogsStorage.
type CalorieLogsMemoryStorage struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]storage.CalorieLog
}

func NewCalorieLogsMemoryStorage() *CalorieLogsMemoryStorage {
	return &CalorieLogsMemoryStorage{
		entries: make(map[uuid.UUID]storage.CalorieLog),
	}
}

func (s *CalorieLogsMemoryStorage) CreateCalorieLog(ctx context.Context, entry *storage.CalorieLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	s.entries[entry.ID] = *entry

	return nil
}

func (s *CalorieLogsMemoryStorage) GetCalorieLog(ctx context.Context, id uuid.UUID) (*storage.CalorieLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &entry, nil
}

func (s *CalorieLogsMemoryStorage) ListCalorieLogs(ctx context.Context, ownerID uuid.UUID) ([]storage.CalorieLog, error) {
	return s.list(ownerID, func(e storage.CalorieLog) bool { return true })
}

func (s *CalorieLogsMemoryStorage) ListCalorieLogsByDate(ctx context.Context, ownerID uuid.UUID, date string) ([]storage.CalorieLog, error) {
	return s.list(ownerID, func(e storage.CalorieLog) bool { return e.LogDate == date })
}

func (s *CalorieLogsMemoryStorage) ListCalorieLogsInRange(ctx context.Context, ownerID uuid.UUID, from, to string) ([]storage.CalorieLog, error) {
	// Lexicographic compare is correct for YYYY-MM-DD.
	return s.list(ownerID, func(e storage.CalorieLog) bool {
		return e.LogDate >= from && e.LogDate <= to
	})
}

func (s *CalorieLogsMemoryStorage) list(ownerID uuid.UUID, match func(storage.CalorieLog) bool) ([]storage.CalorieLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]storage.CalorieLog, 0)
	for _, e := range s.entries {
		if e.OwnerID == ownerID && match(e) {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LogDate != entries[j].LogDate {
			return entries[i].LogDate < entries[j].LogDate
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	return entries, nil
}

func (s *CalorieLogsMemoryStorage) UpdateCalorieLog(ctx context.Context, entry *storage.CalorieLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.ID]; !ok {
		return storage.ErrNotFound
	}

	entry.UpdatedAt = time.Now()
	s.entries[entry.ID] = *entry

	return nil
}

func (s *CalorieLogsMemoryStorage) DeleteCalorieLog(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.entries, id)

	return nil
}
