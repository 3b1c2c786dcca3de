package memory

import (
	"github.com/healthyfood/calorie-hub/internal/storage"
)

// MemoryStorage — in-memory реализация storage.Storage. Используется в
// тестах и при запуске без DATABASE_URL.
type MemoryStorage struct {
	users       *UsersMemoryStorage
	foodItems   *FoodItemsMemoryStorage
	dietPlans   *DietPlansMemoryStorage
	calorieLogs *CalorieLogsMemoryStorage
	reports     *ReportsMemoryStorage
}

// New создаёт пустой MemoryStorage.
func New() *MemoryStorage {
	return &MemoryStorage{
		users:       NewUsersMemoryStorage(),
		foodItems:   NewFoodItemsMemoryStorage(),
		dietPlans:   NewDietPlansMemoryStorage(),
		calorieLogs: NewCalorieLogsMemoryStorage(),
		reports:     NewReportsMemoryStorage(),
	}
}

// GetUsersStorage returns the users storage.
func (m *MemoryStorage) GetUsersStorage() storage.UsersStorage {
	return m.users
}

// GetFoodItemsStorage returns the food items storage.
func (m *MemoryStorage) GetFoodItemsStorage() storage.FoodItemsStorage {
	return m.foodItems
}

// GetDietPlansStorage returns the diet plans storage.
func (m *MemoryStorage) GetDietPlansStorage() storage.DietPlansStorage {
	return m.dietPlans
}

// GetCalorieLogsStorage returns the calorie logs storage.
func (m *MemoryStorage) GetCalorieLogsStorage() storage.CalorieLogsStorage {
	return m.calorieLogs
}

// GetReportsStorage returns the reports storage.
func (m *MemoryStorage) GetReportsStorage() storage.ReportsStorage {
	return m.reports
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}
