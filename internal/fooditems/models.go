package fooditems

import (
	"time"

	"github.com/google/uuid"
)

// CreateFoodItemRequest — запрос на создание продукта
type CreateFoodItemRequest struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}

// UpdateFoodItemRequest — merge-patch, меняются только переданные поля
type UpdateFoodItemRequest struct {
	Name          *string  `json:"name,omitempty"`
	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
}

// FoodItemResponse — представление продукта в API
type FoodItemResponse struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       *uuid.UUID `json:"owner_id,omitempty"`
	Name          string     `json:"name"`
	Calories      float64    `json:"calories"`
	Protein       float64    `json:"protein"`
	Carbohydrates float64    `json:"carbohydrates"`
	Fat           float64    `json:"fat"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FoodItemsResponse — список продуктов
type FoodItemsResponse struct {
	FoodItems []FoodItemResponse `json:"food_items"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
