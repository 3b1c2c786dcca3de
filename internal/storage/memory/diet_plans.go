package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// DietPlansMemoryStorage — in-memory реализация DietPlansStorage.
type DietPlansMemoryStorage struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]storage.DietPlan
}

func NewDietPlansMemoryStorage() *DietPlansMemoryStorage {
	return &DietPlansMemoryStorage{
		plans: make(map[uuid.UUID]storage.DietPlan),
	}
}

func (s *DietPlansMemoryStorage) CreateDietPlan(ctx context.Context, plan *storage.DietPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	s.plans[plan.ID] = copyDietPlan(*plan)

	return nil
}

func (s *DietPlansMemoryStorage) GetDietPlan(ctx context.Context, id uuid.UUID) (*storage.DietPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	result := copyDietPlan(plan)
	return &result, nil
}

func (s *DietPlansMemoryStorage) ListDietPlans(ctx context.Context, ownerID uuid.UUID) ([]storage.DietPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := make([]storage.DietPlan, 0)
	for _, plan := range s.plans {
		if plan.OwnerID == ownerID {
			plans = append(plans, copyDietPlan(plan))
		}
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})

	return plans, nil
}

func (s *DietPlansMemoryStorage) UpdateDietPlan(ctx context.Context, plan *storage.DietPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[plan.ID]; !ok {
		return storage.ErrNotFound
	}

	plan.UpdatedAt = time.Now()
	s.plans[plan.ID] = copyDietPlan(*plan)

	return nil
}

func (s *DietPlansMemoryStorage) DeleteDietPlan(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.plans, id)

	return nil
}

// copyDietPlan копирует план вместе со слайсом meals и указателями.
func copyDietPlan(plan storage.DietPlan) storage.DietPlan {
	if plan.Description != nil {
		d := *plan.Description
		plan.Description = &d
	}
	plan.TargetCalories = copyFloatPtr(plan.TargetCalories)
	plan.TargetProtein = copyFloatPtr(plan.TargetProtein)
	plan.TargetCarbs = copyFloatPtr(plan.TargetCarbs)
	plan.TargetFat = copyFloatPtr(plan.TargetFat)

	if plan.Meals != nil {
		meals := make([]storage.Meal, len(plan.Meals))
		copy(meals, plan.Meals)
		plan.Meals = meals
	}

	return plan
}

func copyFloatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
