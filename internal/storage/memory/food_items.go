package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// FoodItemsMemoryStorage — in-memory реализация FoodItemsStorage.
type FoodItemsMemoryStorage struct {
	mu    sync.RWMutex
	items map[uuid.UUID]storage.FoodItem
}

func NewFoodItemsMemoryStorage() *FoodItemsMemoryStorage {
	return &FoodItemsMemoryStorage{
		items: make(map[uuid.UUID]storage.FoodItem),
	}
}

func (s *FoodItemsMemoryStorage) CreateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	s.items[item.ID] = copyFoodItem(*item)

	return nil
}

func (s *FoodItemsMemoryStorage) GetFoodItem(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	result := copyFoodItem(item)
	return &result, nil
}

func (s *FoodItemsMemoryStorage) ListFoodItems(ctx context.Context) ([]storage.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]storage.FoodItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, copyFoodItem(item))
	}

	sortFoodItems(items)
	return items, nil
}

func (s *FoodItemsMemoryStorage) ListFoodItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]storage.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]storage.FoodItem, 0)
	for _, item := range s.items {
		if item.OwnerID != nil && *item.OwnerID == ownerID {
			items = append(items, copyFoodItem(item))
		}
	}

	sortFoodItems(items)
	return items, nil
}

func (s *FoodItemsMemoryStorage) UpdateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return storage.ErrNotFound
	}

	item.UpdatedAt = time.Now()
	s.items[item.ID] = copyFoodItem(*item)

	return nil
}

func (s *FoodItemsMemoryStorage) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.items, id)

	return nil
}

// copyFoodItem делает копию записи, чтобы вызывающий не видел внутреннее состояние.
func copyFoodItem(item storage.FoodItem) storage.FoodItem {
	if item.OwnerID != nil {
		owner := *item.OwnerID
		item.OwnerID = &owner
	}
	return item
}

func sortFoodItems(items []storage.FoodItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
