package calorielogs

import (
	"time"

	"github.com/google/uuid"
)

// CreateCalorieLogRequest — запрос на запись в дневник.
// log_date опционален, по умолчанию сегодня (UTC).
type CreateCalorieLogRequest struct {
	FoodItemID uuid.UUID `json:"food_item_id"`
	Quantity   float64   `json:"quantity"`
	LogDate    string    `json:"log_date,omitempty"`
}

// UpdateCalorieLogRequest — merge-patch, меняются только переданные поля.
// calories_consumed всегда пересчитывается по каталогу.
type UpdateCalorieLogRequest struct {
	FoodItemID *uuid.UUID `json:"food_item_id,omitempty"`
	Quantity   *float64   `json:"quantity,omitempty"`
	LogDate    *string    `json:"log_date,omitempty"`
}

// CalorieLogResponse — представление записи дневника в API
type CalorieLogResponse struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	FoodItemID       uuid.UUID `json:"food_item_id"`
	Quantity         float64   `json:"quantity"`
	CaloriesConsumed float64   `json:"calories_consumed"`
	LogDate          string    `json:"log_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CalorieLogsResponse — список записей
type CalorieLogsResponse struct {
	CalorieLogs []CalorieLogResponse `json:"calorie_logs"`
}

// DailySummaryResponse — записи за день с суммой калорий
type DailySummaryResponse struct {
	Date          string               `json:"date"`
	TotalCalories float64              `json:"total_calories"`
	CalorieLogs   []CalorieLogResponse `json:"calorie_logs"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
