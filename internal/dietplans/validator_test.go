package dietplans

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/catalog"
	"github.com/healthyfood/calorie-hub/internal/storage"
	"github.com/healthyfood/calorie-hub/internal/storage/memory"
)

func seedCatalog(t *testing.T, names ...string) (catalog.Lookup, []uuid.UUID) {
	t.Helper()

	repo := memory.NewFoodItemsMemoryStorage()
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		item := &storage.FoodItem{Name: name, Calories: 100}
		if err := repo.CreateFoodItem(context.Background(), item); err != nil {
			t.Fatalf("CreateFoodItem() error = %v", err)
		}
		ids = append(ids, item.ID)
	}

	return catalog.NewStorageLookup(repo), ids
}

func floatPtr(v float64) *float64 { return &v }

func validationCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperr.As(err)
	if !ok {
		t.Fatalf("error = %v, want *apperr.Error", err)
	}
	return appErr.Code
}

func TestValidateAcceptsCompletePlan(t *testing.T) {
	lookup, ids := seedCatalog(t, "Apple", "Rice")
	v := NewValidator(lookup)

	plan := &storage.DietPlan{
		Name:           "Cutting",
		TargetCalories: floatPtr(1800),
		Meals: []storage.Meal{
			{FoodItemID: ids[0], Quantity: 2},
			{FoodItemID: ids[1], Quantity: 1},
		},
	}

	if err := v.Validate(context.Background(), plan); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateEmptyName(t *testing.T) {
	lookup, _ := seedCatalog(t)
	v := NewValidator(lookup)

	err := v.Validate(context.Background(), &storage.DietPlan{Name: ""})
	if code := validationCode(t, err); code != "empty_name" {
		t.Errorf("code = %s, want empty_name", code)
	}
}

func TestValidateNonpositiveTarget(t *testing.T) {
	lookup, _ := seedCatalog(t)
	v := NewValidator(lookup)

	err := v.Validate(context.Background(), &storage.DietPlan{
		Name:          "Bulk",
		TargetProtein: floatPtr(0),
	})
	if code := validationCode(t, err); code != "nonpositive_target" {
		t.Errorf("code = %s, want nonpositive_target", code)
	}
}

func TestValidateDanglingMealRef(t *testing.T) {
	lookup, _ := seedCatalog(t)
	v := NewValidator(lookup)

	err := v.Validate(context.Background(), &storage.DietPlan{
		Name:  "Bulk",
		Meals: []storage.Meal{{FoodItemID: uuid.New(), Quantity: 1}},
	})
	if code := validationCode(t, err); code != "food_item_not_found" {
		t.Errorf("code = %s, want food_item_not_found", code)
	}
}

func TestValidateNonpositiveQuantity(t *testing.T) {
	lookup, ids := seedCatalog(t, "Apple")
	v := NewValidator(lookup)

	err := v.Validate(context.Background(), &storage.DietPlan{
		Name:  "Bulk",
		Meals: []storage.Meal{{FoodItemID: ids[0], Quantity: 0}},
	})
	if code := validationCode(t, err); code != "nonpositive_quantity" {
		t.Errorf("code = %s, want nonpositive_quantity", code)
	}
}

func TestValidateOrderFirstFailureWins(t *testing.T) {
	lookup, ids := seedCatalog(t, "Apple")
	v := NewValidator(lookup)

	t.Run("empty name beats bad target and bad meals", func(t *testing.T) {
		err := v.Validate(context.Background(), &storage.DietPlan{
			Name:           "",
			TargetCalories: floatPtr(-1),
			Meals:          []storage.Meal{{FoodItemID: uuid.New(), Quantity: -2}},
		})
		if code := validationCode(t, err); code != "empty_name" {
			t.Errorf("code = %s, want empty_name", code)
		}
	})

	t.Run("bad target beats bad meals", func(t *testing.T) {
		err := v.Validate(context.Background(), &storage.DietPlan{
			Name:           "Plan",
			TargetCalories: floatPtr(-1),
			Meals:          []storage.Meal{{FoodItemID: uuid.New(), Quantity: -2}},
		})
		if code := validationCode(t, err); code != "nonpositive_target" {
			t.Errorf("code = %s, want nonpositive_target", code)
		}
	})

	t.Run("dangling ref beats bad quantity", func(t *testing.T) {
		// Первое блюдо валидно по ссылке, но с нулевым количеством;
		// второе ссылается в никуда. Ссылки проверяются раньше количеств.
		err := v.Validate(context.Background(), &storage.DietPlan{
			Name: "Plan",
			Meals: []storage.Meal{
				{FoodItemID: ids[0], Quantity: 0},
				{FoodItemID: uuid.New(), Quantity: 1},
			},
		})
		if code := validationCode(t, err); code != "food_item_not_found" {
			t.Errorf("code = %s, want food_item_not_found", code)
		}
	})
}
