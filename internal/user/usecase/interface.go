// Package usecase implements business logic orchestration for user provisioning.
package usecase

import (
	"context"

	"github.com/google/uuid"

	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user. Returns ErrUserAlreadyExists when the
	// login is taken.
	Create(ctx context.Context, user *userDomain.User) error
	// GetByLogin retrieves a user by login. Returns ErrUserNotFound when
	// no user matches.
	GetByLogin(ctx context.Context, login string) (*userDomain.User, error)
	// GetByID retrieves a user by id. Returns ErrUserNotFound when no user
	// matches.
	GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)
}

// UseCase defines the user provisioning operations.
type UseCase interface {
	// CreateUser provisions a new active user with the given login and
	// password. The password is hashed before storage; the plain text is
	// never persisted.
	CreateUser(ctx context.Context, login, password string) (*userDomain.User, error)
}
