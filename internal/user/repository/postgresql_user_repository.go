// Package repository implements user persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// PostgreSQLUserRepository implements User persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new User into the PostgreSQL database. Returns
// ErrUserAlreadyExists on a login uniqueness violation, or an error if
// database insertion fails.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (id, login, password_hash, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Login,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return userDomain.ErrUserAlreadyExists
		}
		return apperrors.WrapUnavailable(err, "failed to create user")
	}
	return nil
}

// GetByLogin retrieves a User by login from the PostgreSQL database. Returns
// ErrUserNotFound if the user doesn't exist, or an error if database query
// fails.
func (p *PostgreSQLUserRepository) GetByLogin(ctx context.Context, login string) (*userDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, login, password_hash, is_active, created_at, updated_at
			  FROM users WHERE login = $1`

	var user userDomain.User

	err := querier.QueryRowContext(ctx, query, login).Scan(
		&user.ID,
		&user.Login,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDomain.ErrUserNotFound
		}
		return nil, apperrors.WrapUnavailable(err, "failed to get user by login")
	}

	return &user, nil
}

// GetByID retrieves a User by ID from the PostgreSQL database. Returns
// ErrUserNotFound if the user doesn't exist, or an error if database query
// fails.
func (p *PostgreSQLUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, login, password_hash, is_active, created_at, updated_at
			  FROM users WHERE id = $1`

	var user userDomain.User

	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Login,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDomain.ErrUserNotFound
		}
		return nil, apperrors.WrapUnavailable(err, "failed to get user by id")
	}

	return &user, nil
}

// NewPostgreSQLUserRepository creates a new PostgreSQL User repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}
