// Package service provides credential verification against the user store.
package service

import (
	"context"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// UserRepository is the subset of user persistence the directory needs.
type UserRepository interface {
	GetByLogin(ctx context.Context, login string) (*userDomain.User, error)
}

// Directory authenticates login/password pairs using Argon2id verification.
// Unknown logins are verified against a throwaway hash so the response time
// does not reveal whether the login exists.
type Directory struct {
	repo      UserRepository
	hasher    *pwdhash.PasswordHasher
	dummyHash string
}

// NewDirectory creates a Directory backed by the given user repository.
func NewDirectory(repo UserRepository) (*Directory, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	dummyHash, err := hasher.Hash([]byte(uuid.Must(uuid.NewV7()).String()))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create dummy hash")
	}

	return &Directory{
		repo:      repo,
		hasher:    hasher,
		dummyHash: dummyHash,
	}, nil
}

// Authenticate verifies a login/password pair and returns the subject id on
// success. All failure modes (unknown login, wrong password, inactive user)
// collapse into ErrInvalidCredentials.
func (d *Directory) Authenticate(ctx context.Context, login, password string) (uuid.UUID, error) {
	user, err := d.repo.GetByLogin(ctx, login)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Burn the same hashing cost as a real verification
			_, _ = d.hasher.Verify([]byte(password), d.dummyHash)
			return uuid.Nil, authDomain.ErrInvalidCredentials
		}
		return uuid.Nil, err
	}

	ok, err := d.hasher.Verify([]byte(password), user.PasswordHash)
	if err != nil || !ok {
		return uuid.Nil, authDomain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return uuid.Nil, authDomain.ErrInvalidCredentials
	}

	return user.ID, nil
}

// HashPassword hashes a plain password for storage. Used when provisioning
// users.
func (d *Directory) HashPassword(password string) (string, error) {
	hash, err := d.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}
