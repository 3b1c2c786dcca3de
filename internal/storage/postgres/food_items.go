package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// PostgresFoodItemsStorage — Postgres реализация FoodItemsStorage.
type PostgresFoodItemsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresFoodItemsStorage(pool *pgxpool.Pool) *PostgresFoodItemsStorage {
	return &PostgresFoodItemsStorage{pool: pool}
}

func (s *PostgresFoodItemsStorage) CreateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO food_items (id, owner_id, name, calories, protein, carbohydrates, fat, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		item.ID,
		item.OwnerID,
		item.Name,
		item.Calories,
		item.Protein,
		item.Carbohydrates,
		item.Fat,
		item.CreatedAt,
		item.UpdatedAt,
	)

	return err
}

func (s *PostgresFoodItemsStorage) GetFoodItem(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	query := `
		SELECT id, owner_id, name, calories, protein, carbohydrates, fat, created_at, updated_at
		FROM food_items
		WHERE id = $1
	`

	var item storage.FoodItem
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.OwnerID,
		&item.Name,
		&item.Calories,
		&item.Protein,
		&item.Carbohydrates,
		&item.Fat,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *PostgresFoodItemsStorage) ListFoodItems(ctx context.Context) ([]storage.FoodItem, error) {
	query := `
		SELECT id, owner_id, name, calories, protein, carbohydrates, fat, created_at, updated_at
		FROM food_items
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFoodItems(rows)
}

func (s *PostgresFoodItemsStorage) ListFoodItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]storage.FoodItem, error) {
	query := `
		SELECT id, owner_id, name, calories, protein, carbohydrates, fat, created_at, updated_at
		FROM food_items
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFoodItems(rows)
}

func (s *PostgresFoodItemsStorage) UpdateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	item.UpdatedAt = time.Now()

	query := `
		UPDATE food_items
		SET name = $2, calories = $3, protein = $4, carbohydrates = $5, fat = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Calories,
		item.Protein,
		item.Carbohydrates,
		item.Fat,
		item.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *PostgresFoodItemsStorage) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM food_items WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func scanFoodItems(rows pgx.Rows) ([]storage.FoodItem, error) {
	items := []storage.FoodItem{}
	for rows.Next() {
		var item storage.FoodItem
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Name,
			&item.Calories,
			&item.Protein,
			&item.Carbohydrates,
			&item.Fat,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
