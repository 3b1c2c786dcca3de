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

// PostgresUsersStorage — Postgres реализация UsersStorage.
type PostgresUsersStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresUsersStorage(pool *pgxpool.Pool) *PostgresUsersStorage {
	return &PostgresUsersStorage{pool: pool}
}

func (s *PostgresUsersStorage) CreateUser(ctx context.Context, user *storage.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, username, email, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

func (s *PostgresUsersStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return s.scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresUsersStorage) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	return s.scanUser(s.pool.QueryRow(ctx, query, username))
}

func (s *PostgresUsersStorage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return s.scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *PostgresUsersStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = $2, password_hash = $3, is_active = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *PostgresUsersStorage) scanUser(row pgx.Row) (*storage.User, error) {
	var user storage.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}
