// Package nutrition считает суммарные калории и макросы по ссылкам на
// продукты из справочника.
package nutrition

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/catalog"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

// Totals — агрегированные значения по набору блюд.
type Totals struct {
	Calories float64 `json:"total_calories"`
	Protein  float64 `json:"total_protein"`
	Carbs    float64 `json:"total_carbohydrates"`
	Fat      float64 `json:"total_fat"`
}

// Aggregator считает Totals, разрешая ссылки через каталог.
type Aggregator struct {
	catalog catalog.Lookup
}

func NewAggregator(catalog catalog.Lookup) *Aggregator {
	return &Aggregator{catalog: catalog}
}

// AggregatePlan суммирует вклад каждого блюда плана. Ссылки на продукты,
// удалённые из справочника после сохранения плана, пропускаются.
func (a *Aggregator) AggregatePlan(ctx context.Context, meals []storage.Meal) (Totals, error) {
	var totals Totals

	for _, meal := range meals {
		item, err := a.catalog.Lookup(ctx, meal.FoodItemID)
		if err != nil {
			return Totals{}, apperr.Persistence(err)
		}
		if item == nil {
			continue
		}

		totals.Calories += item.Calories * meal.Quantity
		totals.Protein += item.Protein * meal.Quantity
		totals.Carbs += item.Carbohydrates * meal.Quantity
		totals.Fat += item.Fat * meal.Quantity
	}

	return totals, nil
}

// ConsumedCalories возвращает calories * quantity для одной записи дневника.
// Отсутствующий продукт — ошибка, запись без справочного продукта не имеет смысла.
func (a *Aggregator) ConsumedCalories(ctx context.Context, foodItemID uuid.UUID, quantity float64) (float64, error) {
	item, err := a.catalog.Lookup(ctx, foodItemID)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	if item == nil {
		return 0, apperr.NotFound("food_item")
	}

	return item.Calories * quantity, nil
}
