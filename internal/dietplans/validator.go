package dietplans

import (
	"context"
	"fmt"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/catalog"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

// Validator проверяет план перед сохранением. Порядок проверок фиксирован:
// имя, затем цели, затем ссылки всех блюд, затем количества.
// Возвращается первая найденная ошибка.
type Validator struct {
	catalog catalog.Lookup
}

func NewValidator(catalog catalog.Lookup) *Validator {
	return &Validator{catalog: catalog}
}

func (v *Validator) Validate(ctx context.Context, plan *storage.DietPlan) error {
	if plan.Name == "" {
		return apperr.Validation("empty_name", "plan name must not be empty")
	}

	for _, target := range []struct {
		name  string
		value *float64
	}{
		{"target_calories", plan.TargetCalories},
		{"target_protein", plan.TargetProtein},
		{"target_carbohydrates", plan.TargetCarbs},
		{"target_fat", plan.TargetFat},
	} {
		if target.value != nil && *target.value <= 0 {
			return apperr.Validation("nonpositive_target", fmt.Sprintf("%s must be positive", target.name))
		}
	}

	for _, meal := range plan.Meals {
		item, err := v.catalog.Lookup(ctx, meal.FoodItemID)
		if err != nil {
			return apperr.Persistence(err)
		}
		if item == nil {
			return apperr.Validation("food_item_not_found", fmt.Sprintf("food item %s does not exist", meal.FoodItemID))
		}
	}

	for _, meal := range plan.Meals {
		if meal.Quantity <= 0 {
			return apperr.Validation("nonpositive_quantity", fmt.Sprintf("quantity for food item %s must be positive", meal.FoodItemID))
		}
	}

	return nil
}
