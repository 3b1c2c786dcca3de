package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthyfood/calorie-hub/internal/storage"
)

// PostgresReportsStorage — Postgres storage для отчётов. Колонка data
// используется только в local blob режиме, в s3 режиме она NULL.
type PostgresReportsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresReportsStorage(pool *pgxpool.Pool) *PostgresReportsStorage {
	return &PostgresReportsStorage{pool: pool}
}

// CreateReport создаёт новый отчёт
func (s *PostgresReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	query := `
		INSERT INTO reports (id, owner_id, format, from_date, to_date, object_key, size_bytes, status, error, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		report.ID,
		report.OwnerID,
		report.Format,
		report.FromDate,
		report.ToDate,
		report.ObjectKey,
		report.SizeBytes,
		report.Status,
		report.Error,
		report.Data,
	).Scan(&report.CreatedAt, &report.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetReport возвращает отчёт по ID
func (s *PostgresReportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `
		SELECT id, owner_id, format, to_char(from_date, 'YYYY-MM-DD'), to_char(to_date, 'YYYY-MM-DD'), object_key, size_bytes, status, error, data, created_at, updated_at
		FROM reports
		WHERE id = $1
	`

	var report storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.OwnerID,
		&report.Format,
		&report.FromDate,
		&report.ToDate,
		&report.ObjectKey,
		&report.SizeBytes,
		&report.Status,
		&report.Error,
		&report.Data,
		&report.CreatedAt,
		&report.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &report, nil
}

// ListReports возвращает отчёты пользователя, новые первыми.
// Поле data в списке не возвращается.
func (s *PostgresReportsStorage) ListReports(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	query := `
		SELECT id, owner_id, format, to_char(from_date, 'YYYY-MM-DD'), to_char(to_date, 'YYYY-MM-DD'), object_key, size_bytes, status, error, created_at, updated_at
		FROM reports
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []storage.ReportMeta{}
	for rows.Next() {
		var report storage.ReportMeta
		if err := rows.Scan(
			&report.ID,
			&report.OwnerID,
			&report.Format,
			&report.FromDate,
			&report.ToDate,
			&report.ObjectKey,
			&report.SizeBytes,
			&report.Status,
			&report.Error,
			&report.CreatedAt,
			&report.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// DeleteReport удаляет отчёт по ID
func (s *PostgresReportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reports WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}
