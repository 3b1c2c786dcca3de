package dietplans

import (
	"time"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/nutrition"
)

// MealRequest — ссылка на продукт каталога с количеством порций
type MealRequest struct {
	FoodItemID uuid.UUID `json:"food_item_id"`
	Quantity   float64   `json:"quantity"`
}

// CreateDietPlanRequest — запрос на создание плана питания
type CreateDietPlanRequest struct {
	Name           string        `json:"name"`
	Description    *string       `json:"description,omitempty"`
	TargetCalories *float64      `json:"target_calories,omitempty"`
	TargetProtein  *float64      `json:"target_protein,omitempty"`
	TargetCarbs    *float64      `json:"target_carbohydrates,omitempty"`
	TargetFat      *float64      `json:"target_fat,omitempty"`
	Meals          []MealRequest `json:"meals"`
}

// UpdateDietPlanRequest — merge-patch, меняются только переданные поля.
// Переданный meals заменяет список целиком.
type UpdateDietPlanRequest struct {
	Name           *string        `json:"name,omitempty"`
	Description    *string        `json:"description,omitempty"`
	TargetCalories *float64       `json:"target_calories,omitempty"`
	TargetProtein  *float64       `json:"target_protein,omitempty"`
	TargetCarbs    *float64       `json:"target_carbohydrates,omitempty"`
	TargetFat      *float64       `json:"target_fat,omitempty"`
	Meals          *[]MealRequest `json:"meals,omitempty"`
}

// DietPlanResponse — представление плана в API
type DietPlanResponse struct {
	ID             uuid.UUID     `json:"id"`
	OwnerID        uuid.UUID     `json:"owner_id"`
	Name           string        `json:"name"`
	Description    *string       `json:"description,omitempty"`
	TargetCalories *float64      `json:"target_calories,omitempty"`
	TargetProtein  *float64      `json:"target_protein,omitempty"`
	TargetCarbs    *float64      `json:"target_carbohydrates,omitempty"`
	TargetFat      *float64      `json:"target_fat,omitempty"`
	Meals          []MealRequest `json:"meals"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// DietPlansResponse — список планов
type DietPlansResponse struct {
	DietPlans []DietPlanResponse `json:"diet_plans"`
}

// TotalsResponse — агрегированные калории и макросы плана
type TotalsResponse struct {
	PlanID uuid.UUID `json:"plan_id"`
	nutrition.Totals
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
