package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается всеми реализациями, когда записи нет.
var ErrNotFound = errors.New("record not found")

// User — зарегистрированный пользователь.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FoodItem — запись каталога еды. OwnerID == nil для глобальных записей.
type FoodItem struct {
	ID            uuid.UUID
	OwnerID       *uuid.UUID
	Name          string
	Calories      float64
	Protein       float64
	Carbohydrates float64
	Fat           float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Meal — позиция диет-плана: ссылка на продукт + количество порций.
// JSON tags define the JSONB layout of diet_plans.meals.
type Meal struct {
	FoodItemID uuid.UUID `json:"food_item_id"`
	Quantity   float64   `json:"quantity"`
}

// DietPlan — диет-план пользователя.
type DietPlan struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Description    *string
	TargetCalories *float64
	TargetProtein  *float64
	TargetCarbs    *float64
	TargetFat      *float64
	Meals          []Meal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CalorieLog — запись о съеденном. CaloriesConsumed всегда вычисляется сервером.
type CalorieLog struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	FoodItemID       uuid.UUID
	Quantity         float64
	CaloriesConsumed float64
	LogDate          string // YYYY-MM-DD
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReportMeta — метаданные сгенерированного отчёта.
type ReportMeta struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Format    string // "pdf" or "csv"
	FromDate  string // YYYY-MM-DD
	ToDate    string // YYYY-MM-DD
	ObjectKey *string
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // Only used in memory (local blob) mode, not stored in DB
}

// UsersStorage — интерфейс для работы с пользователями.
type UsersStorage interface {
	// CreateUser создаёт пользователя.
	CreateUser(ctx context.Context, user *User) error

	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// GetUserByUsername возвращает пользователя по username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdateUser обновляет пользователя (email, password hash, is_active).
	UpdateUser(ctx context.Context, user *User) error
}

// FoodItemsStorage — интерфейс каталога еды.
type FoodItemsStorage interface {
	// CreateFoodItem создаёт запись каталога.
	CreateFoodItem(ctx context.Context, item *FoodItem) error

	// GetFoodItem возвращает запись по ID.
	GetFoodItem(ctx context.Context, id uuid.UUID) (*FoodItem, error)

	// ListFoodItems возвращает весь каталог.
	ListFoodItems(ctx context.Context) ([]FoodItem, error)

	// ListFoodItemsByOwner возвращает записи конкретного владельца.
	ListFoodItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]FoodItem, error)

	// UpdateFoodItem сохраняет полную запись.
	UpdateFoodItem(ctx context.Context, item *FoodItem) error

	// DeleteFoodItem удаляет запись.
	DeleteFoodItem(ctx context.Context, id uuid.UUID) error
}

// DietPlansStorage — интерфейс диет-планов.
type DietPlansStorage interface {
	CreateDietPlan(ctx context.Context, plan *DietPlan) error
	GetDietPlan(ctx context.Context, id uuid.UUID) (*DietPlan, error)
	ListDietPlans(ctx context.Context, ownerID uuid.UUID) ([]DietPlan, error)
	UpdateDietPlan(ctx context.Context, plan *DietPlan) error
	DeleteDietPlan(ctx context.Context, id uuid.UUID) error
}

// CalorieLogsStorage — интерфейс журналов калорий.
type CalorieLogsStorage interface {
	CreateCalorieLog(ctx context.Context, entry *CalorieLog) error
	GetCalorieLog(ctx context.Context, id uuid.UUID) (*CalorieLog, error)
	ListCalorieLogs(ctx context.Context, ownerID uuid.UUID) ([]CalorieLog, error)

	// ListCalorieLogsByDate возвращает записи владельца за конкретный день.
	ListCalorieLogsByDate(ctx context.Context, ownerID uuid.UUID, date string) ([]CalorieLog, error)

	// ListCalorieLogsInRange возвращает записи владельца за период [from, to].
	ListCalorieLogsInRange(ctx context.Context, ownerID uuid.UUID, from, to string) ([]CalorieLog, error)

	UpdateCalorieLog(ctx context.Context, entry *CalorieLog) error
	DeleteCalorieLog(ctx context.Context, id uuid.UUID) error
}

// ReportsStorage — интерфейс для работы с отчётами.
type ReportsStorage interface {
	// CreateReport создаёт новый отчёт (metadata + optional data for memory mode).
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт по ID.
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов владельца с пагинацией.
	ListReports(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет отчёт.
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// Storage — корневой handle над всеми коллекциями. Передаётся явно в
// сервисы при конструировании; глобального состояния нет.
type Storage interface {
	GetUsersStorage() UsersStorage
	GetFoodItemsStorage() FoodItemsStorage
	GetDietPlansStorage() DietPlansStorage
	GetCalorieLogsStorage() CalorieLogsStorage
	GetReportsStorage() ReportsStorage

	// Close закрывает соединение (для Postgres).
	Close() error
}
