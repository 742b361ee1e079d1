package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

type stubUserRepository struct {
	user *userDomain.User
	err  error
}

func (s *stubUserRepository) GetByLogin(_ context.Context, _ string) (*userDomain.User, error) {
	return s.user, s.err
}

func newTestUser(t *testing.T, directory *Directory, password string, active bool) *userDomain.User {
	t.Helper()

	hash, err := directory.HashPassword(password)
	require.NoError(t, err)

	return &userDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Login:        "alice",
		PasswordHash: hash,
		IsActive:     active,
	}
}

func TestDirectory_Authenticate(t *testing.T) {
	repo := &stubUserRepository{}
	directory, err := NewDirectory(repo)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		user := newTestUser(t, directory, "correct horse", true)
		repo.user, repo.err = user, nil

		subjectID, err := directory.Authenticate(ctx, "alice", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, subjectID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo.user, repo.err = newTestUser(t, directory, "correct horse", true), nil

		subjectID, err := directory.Authenticate(ctx, "alice", "battery staple")
		require.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Equal(t, uuid.Nil, subjectID)
	})

	t.Run("unknown login", func(t *testing.T) {
		repo.user, repo.err = nil, userDomain.ErrUserNotFound

		subjectID, err := directory.Authenticate(ctx, "nobody", "whatever")
		require.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Equal(t, uuid.Nil, subjectID)
	})

	t.Run("inactive user", func(t *testing.T) {
		repo.user, repo.err = newTestUser(t, directory, "correct horse", false), nil

		subjectID, err := directory.Authenticate(ctx, "alice", "correct horse")
		require.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Equal(t, uuid.Nil, subjectID)
	})

	t.Run("storage failure is not masked", func(t *testing.T) {
		repo.user, repo.err = nil, apperrors.Wrap(apperrors.ErrUnavailable, "connection refused")

		_, err := directory.Authenticate(ctx, "alice", "correct horse")
		require.Error(t, err)
		assert.False(t, apperrors.Is(err, authDomain.ErrInvalidCredentials))
		assert.True(t, apperrors.Is(err, apperrors.ErrUnavailable))
	})
}

func TestDirectory_HashPassword(t *testing.T) {
	directory, err := NewDirectory(&stubUserRepository{})
	require.NoError(t, err)

	hash, err := directory.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse", hash)
}
