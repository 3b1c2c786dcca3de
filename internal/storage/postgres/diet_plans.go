package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// PostgresDietPlansStorage — Postgres реализация DietPlansStorage.
// Список блюд плана хранится в JSONB колонке meals.
type PostgresDietPlansStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresDietPlansStorage(pool *pgxpool.Pool) *PostgresDietPlansStorage {
	return &PostgresDietPlansStorage{pool: pool}
}

func (s *PostgresDietPlansStorage) CreateDietPlan(ctx context.Context, plan *storage.DietPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	mealsJSON, err := encodeMeals(plan.Meals)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO diet_plans (id, owner_id, name, description, target_calories, target_protein, target_carbs, target_fat, meals, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.pool.Exec(ctx, query,
		plan.ID,
		plan.OwnerID,
		plan.Name,
		plan.Description,
		plan.TargetCalories,
		plan.TargetProtein,
		plan.TargetCarbs,
		plan.TargetFat,
		mealsJSON,
		plan.CreatedAt,
		plan.UpdatedAt,
	)

	return err
}

func (s *PostgresDietPlansStorage) GetDietPlan(ctx context.Context, id uuid.UUID) (*storage.DietPlan, error) {
	query := `
		SELECT id, owner_id, name, description, target_calories, target_protein, target_carbs, target_fat, meals, created_at, updated_at
		FROM diet_plans
		WHERE id = $1
	`

	var plan storage.DietPlan
	var mealsJSON []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&plan.ID,
		&plan.OwnerID,
		&plan.Name,
		&plan.Description,
		&plan.TargetCalories,
		&plan.TargetProtein,
		&plan.TargetCarbs,
		&plan.TargetFat,
		&mealsJSON,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	if err := decodeMeals(mealsJSON, &plan.Meals); err != nil {
		return nil, err
	}

	return &plan, nil
}

func (s *PostgresDietPlansStorage) ListDietPlans(ctx context.Context, ownerID uuid.UUID) ([]storage.DietPlan, error) {
	query := `
		SELECT id, owner_id, name, description, target_calories, target_protein, target_carbs, target_fat, meals, created_at, updated_at
		FROM diet_plans
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []storage.DietPlan{}
	for rows.Next() {
		var plan storage.DietPlan
		var mealsJSON []byte
		if err := rows.Scan(
			&plan.ID,
			&plan.OwnerID,
			&plan.Name,
			&plan.Description,
			&plan.TargetCalories,
			&plan.TargetProtein,
			&plan.TargetCarbs,
			&plan.TargetFat,
			&mealsJSON,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := decodeMeals(mealsJSON, &plan.Meals); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (s *PostgresDietPlansStorage) UpdateDietPlan(ctx context.Context, plan *storage.DietPlan) error {
	plan.UpdatedAt = time.Now()

	mealsJSON, err := encodeMeals(plan.Meals)
	if err != nil {
		return err
	}

	query := `
		UPDATE diet_plans
		SET name = $2, description = $3, target_calories = $4, target_protein = $5, target_carbs = $6, target_fat = $7, meals = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		plan.ID,
		plan.Name,
		plan.Description,
		plan.TargetCalories,
		plan.TargetProtein,
		plan.TargetCarbs,
		plan.TargetFat,
		mealsJSON,
		plan.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *PostgresDietPlansStorage) DeleteDietPlan(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM diet_plans WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func encodeMeals(meals []storage.Meal) ([]byte, error) {
	if meals == nil {
		meals = []storage.Meal{}
	}
	return json.Marshal(meals)
}

func decodeMeals(data []byte, dst *[]storage.Meal) error {
	if len(data) == 0 {
		*dst = []storage.Meal{}
		return nil
	}
	return json.Unmarshal(data, dst)
}
