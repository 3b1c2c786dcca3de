// Package catalog даёт остальным сервисам доступ к справочнику продуктов
// без прямой зависимости от конкретного storage.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// Lookup разрешает ссылку на продукт. Возвращает (nil, nil), если продукт
// не найден; ошибка означает сбой хранилища.
type Lookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error)
}

type storageLookup struct {
	repo storage.FoodItemsStorage
}

// NewStorageLookup оборачивает FoodItemsStorage в Lookup.
func NewStorageLookup(repo storage.FoodItemsStorage) Lookup {
	return &storageLookup{repo: repo}
}

func (l *storageLookup) Lookup(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	item, err := l.repo.GetFoodItem(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}
