package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/authgate/internal/errors"
	userDomain "github.com/allisson/authgate/internal/user/domain"
	userService "github.com/allisson/authgate/internal/user/service"
)

// mockUserRepository is a mock implementation of UserRepository for testing.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByLogin(ctx context.Context, login string) (*userDomain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func newUserUseCaseForTest(t *testing.T, repo UserRepository) UseCase {
	t.Helper()

	directory, err := userService.NewDirectory(repo)
	require.NoError(t, err)

	return NewUserUseCase(repo, directory)
}

func TestUserUseCase_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &mockUserRepository{}
		useCase := newUserUseCaseForTest(t, repo)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				created := args.Get(1).(*userDomain.User)
				assert.Equal(t, "alice", created.Login)
				assert.NotEmpty(t, created.PasswordHash)
				assert.NotEqual(t, "correct horse battery", created.PasswordHash)
				assert.True(t, created.IsActive)
				assert.False(t, created.CreatedAt.IsZero())
			}).
			Return(nil)

		user, err := useCase.CreateUser(ctx, "alice", "correct horse battery")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("Error_MissingLogin", func(t *testing.T) {
		repo := &mockUserRepository{}
		useCase := newUserUseCaseForTest(t, repo)

		_, err := useCase.CreateUser(ctx, "", "correct horse battery")
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_ShortPassword", func(t *testing.T) {
		repo := &mockUserRepository{}
		useCase := newUserUseCaseForTest(t, repo)

		_, err := useCase.CreateUser(ctx, "alice", "short")
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_DuplicateLogin", func(t *testing.T) {
		repo := &mockUserRepository{}
		useCase := newUserUseCaseForTest(t, repo)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Return(userDomain.ErrUserAlreadyExists)

		_, err := useCase.CreateUser(ctx, "alice", "correct horse battery")
		require.ErrorIs(t, err, userDomain.ErrUserAlreadyExists)
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("PasswordVerifiesAgainstStoredHash", func(t *testing.T) {
		repo := &mockUserRepository{}
		useCase := newUserUseCaseForTest(t, repo)

		var created *userDomain.User
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*userDomain.User)
			}).
			Return(nil)

		_, err := useCase.CreateUser(ctx, "alice", "correct horse battery")
		require.NoError(t, err)
		require.NotNil(t, created)

		// The stored hash must verify through the same directory path used
		// for logins.
		repo.On("GetByLogin", ctx, "alice").Return(created, nil)
		directory, err := userService.NewDirectory(repo)
		require.NoError(t, err)

		subjectID, err := directory.Authenticate(ctx, "alice", "correct horse battery")
		require.NoError(t, err)
		assert.Equal(t, created.ID, subjectID)
	})
}
