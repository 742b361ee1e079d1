package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// MySQLUserRepository implements User persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via
// database.GetTx().
type MySQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new User into the MySQL database using BINARY(16) for
// UUIDs. Returns ErrUserAlreadyExists on a login uniqueness violation, or an
// error if UUID marshaling or database insertion fails.
func (m *MySQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (id, login, password_hash, is_active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		user.Login,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return userDomain.ErrUserAlreadyExists
		}
		return apperrors.WrapUnavailable(err, "failed to create user")
	}
	return nil
}

// GetByLogin retrieves a User by login from the MySQL database. Returns
// ErrUserNotFound if the user doesn't exist, or an error if database query
// fails.
func (m *MySQLUserRepository) GetByLogin(ctx context.Context, login string) (*userDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, login, password_hash, is_active, created_at, updated_at
			  FROM users WHERE login = ?`

	return m.scanUser(querier.QueryRowContext(ctx, query, login))
}

// GetByID retrieves a User by ID from the MySQL database. Returns
// ErrUserNotFound if the user doesn't exist, or an error if UUID marshaling or
// database query fails.
func (m *MySQLUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, login, password_hash, is_active, created_at, updated_at
			  FROM users WHERE id = ?`

	return m.scanUser(querier.QueryRowContext(ctx, query, id))
}

func (m *MySQLUserRepository) scanUser(row *sql.Row) (*userDomain.User, error) {
	var user userDomain.User
	var id []byte

	err := row.Scan(
		&id,
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
		return nil, apperrors.WrapUnavailable(err, "failed to get user")
	}

	if err := user.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}

	return &user, nil
}

// NewMySQLUserRepository creates a new MySQL User repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}
