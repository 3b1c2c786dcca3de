package nutrition

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

type mockLookup struct {
	items map[uuid.UUID]*storage.FoodItem
	err   error
}

func (m *mockLookup) Lookup(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items[id], nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregatePlanSumsAllMacros(t *testing.T) {
	apple := &storage.FoodItem{ID: uuid.New(), Name: "Apple", Calories: 52, Protein: 0.3, Carbohydrates: 14, Fat: 0.2}
	rice := &storage.FoodItem{ID: uuid.New(), Name: "Rice", Calories: 130, Protein: 2.7, Carbohydrates: 28, Fat: 0.3}

	agg := NewAggregator(&mockLookup{items: map[uuid.UUID]*storage.FoodItem{
		apple.ID: apple,
		rice.ID:  rice,
	}})

	totals, err := agg.AggregatePlan(context.Background(), []storage.Meal{
		{FoodItemID: apple.ID, Quantity: 2},
		{FoodItemID: rice.ID, Quantity: 1.5},
	})
	if err != nil {
		t.Fatalf("AggregatePlan() error = %v", err)
	}

	if !almostEqual(totals.Calories, 2*52+1.5*130) {
		t.Errorf("Calories = %v, want %v", totals.Calories, 2*52+1.5*130.0)
	}
	if !almostEqual(totals.Protein, 2*0.3+1.5*2.7) {
		t.Errorf("Protein = %v, want %v", totals.Protein, 2*0.3+1.5*2.7)
	}
	if !almostEqual(totals.Carbs, 2*14+1.5*28) {
		t.Errorf("Carbs = %v, want %v", totals.Carbs, 2*14+1.5*28.0)
	}
	if !almostEqual(totals.Fat, 2*0.2+1.5*0.3) {
		t.Errorf("Fat = %v, want %v", totals.Fat, 2*0.2+1.5*0.3)
	}
}

func TestAggregatePlanSkipsDanglingRefs(t *testing.T) {
	apple := &storage.FoodItem{ID: uuid.New(), Name: "Apple", Calories: 52}

	agg := NewAggregator(&mockLookup{items: map[uuid.UUID]*storage.FoodItem{
		apple.ID: apple,
	}})

	totals, err := agg.AggregatePlan(context.Background(), []storage.Meal{
		{FoodItemID: apple.ID, Quantity: 1},
		{FoodItemID: uuid.New(), Quantity: 3},
	})
	if err != nil {
		t.Fatalf("AggregatePlan() error = %v", err)
	}

	if !almostEqual(totals.Calories, 52) {
		t.Errorf("Calories = %v, want 52", totals.Calories)
	}
}

func TestAggregatePlanEmpty(t *testing.T) {
	agg := NewAggregator(&mockLookup{})

	totals, err := agg.AggregatePlan(context.Background(), nil)
	if err != nil {
		t.Fatalf("AggregatePlan() error = %v", err)
	}

	if totals != (Totals{}) {
		t.Errorf("totals = %+v, want zero", totals)
	}
}

func TestAggregatePlanStorageError(t *testing.T) {
	agg := NewAggregator(&mockLookup{err: errors.New("connection refused")})

	_, err := agg.AggregatePlan(context.Background(), []storage.Meal{
		{FoodItemID: uuid.New(), Quantity: 1},
	})
	if !apperr.IsKind(err, apperr.KindPersistence) {
		t.Errorf("error = %v, want persistence kind", err)
	}
}

func TestConsumedCalories(t *testing.T) {
	apple := &storage.FoodItem{ID: uuid.New(), Name: "Apple", Calories: 52}

	agg := NewAggregator(&mockLookup{items: map[uuid.UUID]*storage.FoodItem{
		apple.ID: apple,
	}})

	got, err := agg.ConsumedCalories(context.Background(), apple.ID, 2)
	if err != nil {
		t.Fatalf("ConsumedCalories() error = %v", err)
	}
	if !almostEqual(got, 104) {
		t.Errorf("ConsumedCalories() = %v, want 104", got)
	}
}

func TestConsumedCaloriesMissingItem(t *testing.T) {
	agg := NewAggregator(&mockLookup{})

	_, err := agg.ConsumedCalories(context.Background(), uuid.New(), 1)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("error = %v, want not found kind", err)
	}
}
