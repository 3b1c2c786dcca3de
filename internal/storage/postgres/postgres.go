package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// PostgresStorage — Postgres реализация storage.Storage.
type PostgresStorage struct {
	pool        *pgxpool.Pool
	users       *PostgresUsersStorage
	foodItems   *PostgresFoodItemsStorage
	dietPlans   *PostgresDietPlansStorage
	calorieLogs *PostgresCalorieLogsStorage
	reports     *PostgresReportsStorage
}

// New создаёт пул соединений и проверяет доступность базы.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:        pool,
		users:       NewPostgresUsersStorage(pool),
		foodItems:   NewPostgresFoodItemsStorage(pool),
		dietPlans:   NewPostgresDietPlansStorage(pool),
		calorieLogs: NewPostgresCalorieLogsStorage(pool),
		reports:     NewPostgresReportsStorage(pool),
	}, nil
}

// GetUsersStorage returns the users storage.
func (p *PostgresStorage) GetUsersStorage() storage.UsersStorage {
	return p.users
}

// GetFoodItemsStorage returns the food items storage.
func (p *PostgresStorage) GetFoodItemsStorage() storage.FoodItemsStorage {
	return p.foodItems
}

// GetDietPlansStorage returns the diet plans storage.
func (p *PostgresStorage) GetDietPlansStorage() storage.DietPlansStorage {
	return p.dietPlans
}

// GetCalorieLogsStorage returns the calorie logs storage.
func (p *PostgresStorage) GetCalorieLogsStorage() storage.CalorieLogsStorage {
	return p.calorieLogs
}

// GetReportsStorage returns the reports storage.
func (p *PostgresStorage) GetReportsStorage() storage.ReportsStorage {
	return p.reports
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
