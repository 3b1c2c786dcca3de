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

// PostgresCalorieLogsStorage — Postgres реализация CalorieLogsStorage.
type PostgresCalorieLogsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresCalorieLogsStorage(pool *pgxpool.Pool) *PostgresCalorieLogsStorage {
	return &PostgresCalorieLogsStorage{pool: pool}
}

func (s *PostgresCalorieLogsStorage) CreateCalorieLog(ctx context.Context, entry *storage.CalorieLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `
		INSERT INTO calorie_logs (id, owner_id, food_item_id, quantity, calories_consumed, log_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.FoodItemID,
		entry.Quantity,
		entry.CaloriesConsumed,
		entry.LogDate,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	return err
}

func (s *PostgresCalorieLogsStorage) GetCalorieLog(ctx context.Context, id uuid.UUID) (*storage.CalorieLog, error) {
	query := `
		SELECT id, owner_id, food_item_id, quantity, calories_consumed, to_char(log_date, 'YYYY-MM-DD'), created_at, updated_at
		FROM calorie_logs
		WHERE id = $1
	`

	var entry storage.CalorieLog
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.FoodItemID,
		&entry.Quantity,
		&entry.CaloriesConsumed,
		&entry.LogDate,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (s *PostgresCalorieLogsStorage) ListCalorieLogs(ctx context.Context, ownerID uuid.UUID) ([]storage.CalorieLog, error) {
	query := `
		SELECT id, owner_id, food_item_id, quantity, calories_consumed, to_char(log_date, 'YYYY-MM-DD'), created_at, updated_at
		FROM calorie_logs
		WHERE owner_id = $1
		ORDER BY log_date ASC, created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCalorieLogs(rows)
}

func (s *PostgresCalorieLogsStorage) ListCalorieLogsByDate(ctx context.Context, ownerID uuid.UUID, date string) ([]storage.CalorieLog, error) {
	query := `
		SELECT id, owner_id, food_item_id, quantity, calories_consumed, to_char(log_date, 'YYYY-MM-DD'), created_at, updated_at
		FROM calorie_logs
		WHERE owner_id = $1 AND log_date = $2
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCalorieLogs(rows)
}

func (s *PostgresCalorieLogsStorage) ListCalorieLogsInRange(ctx context.Context, ownerID uuid.UUID, from, to string) ([]storage.CalorieLog, error) {
	query := `
		SELECT id, owner_id, food_item_id, quantity, calories_consumed, to_char(log_date, 'YYYY-MM-DD'), created_at, updated_at
		FROM calorie_logs
		WHERE owner_id = $1 AND log_date >= $2 AND log_date <= $3
		ORDER BY log_date ASC, created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCalorieLogs(rows)
}

func (s *PostgresCalorieLogsStorage) UpdateCalorieLog(ctx context.Context, entry *storage.CalorieLog) error {
	entry.UpdatedAt = time.Now()

	query := `
		UPDATE calorie_logs
		SET food_item_id = $2, quantity = $3, calories_consumed = $4, log_date = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.FoodItemID,
		entry.Quantity,
		entry.CaloriesConsumed,
		entry.LogDate,
		entry.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *PostgresCalorieLogsStorage) DeleteCalorieLog(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM calorie_logs WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func scanCalorieLogs(rows pgx.Rows) ([]storage.CalorieLog, error) {
	entries := []storage.CalorieLog{}
	for rows.Next() {
		var entry storage.CalorieLog
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.FoodItemID,
			&entry.Quantity,
			&entry.CaloriesConsumed,
			&entry.LogDate,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
