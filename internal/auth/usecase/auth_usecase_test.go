package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authService "github.com/allisson/authgate/internal/auth/service"
	"github.com/allisson/authgate/internal/config"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// mockRefreshTokenRepository is a mock implementation of RefreshTokenRepository for testing.
type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *authDomain.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) ConsumeByHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockUserDirectory is a mock implementation of UserDirectory for testing.
type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) Authenticate(ctx context.Context, login, password string) (uuid.UUID, error) {
	args := m.Called(ctx, login, password)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// mockRateLimiter is a mock implementation of RateLimiter for testing.
type mockRateLimiter struct {
	mock.Mock
}

func (m *mockRateLimiter) CheckAndRecord(endpointKey, clientIdentity string) error {
	args := m.Called(endpointKey, clientIdentity)
	return args.Error(0)
}

// stubSigningConfigs is a SigningConfigUseCase returning a fixed configuration.
type stubSigningConfigs struct {
	config *authDomain.SigningConfig
	err    error
}

func (s *stubSigningConfigs) Current(_ context.Context) (*authDomain.SigningConfig, error) {
	return s.config, s.err
}

func (s *stubSigningConfigs) Ensure(_ context.Context) error { return s.err }

func (s *stubSigningConfigs) Rotate(_ context.Context, _ bool) (bool, error) { return false, s.err }

type authUseCaseFixture struct {
	useCase     *authUseCase
	refreshRepo *mockRefreshTokenRepository
	directory   *mockUserDirectory
	rateLimiter *mockRateLimiter
	signing     *stubSigningConfigs
	now         time.Time
	slept       *[]time.Duration
}

func newAuthUseCaseFixture(t *testing.T, cfg *config.Config) *authUseCaseFixture {
	t.Helper()

	refreshRepo := &mockRefreshTokenRepository{}
	directory := &mockUserDirectory{}
	rateLimiter := &mockRateLimiter{}
	signing := &stubSigningConfigs{
		config: &authDomain.SigningConfig{
			ID:              uuid.Must(uuid.NewV7()),
			SecretKey:       "test-secret-key-0123456789abcdef",
			Algorithm:       authDomain.AlgorithmHS256,
			AccessTokenTTL:  24 * time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
			CreatedAt:       time.Now().UTC(),
		},
	}

	now := time.Now().UTC()
	slept := []time.Duration{}

	useCase := NewAuthUseCase(
		cfg,
		signing,
		refreshRepo,
		directory,
		authService.NewTokenCodec(),
		authService.NewRefreshTokenService(),
		rateLimiter,
		nil,
	).(*authUseCase)
	useCase.now = func() time.Time { return now }
	useCase.sleep = func(_ context.Context, d time.Duration) { slept = append(slept, d) }

	return &authUseCaseFixture{
		useCase:     useCase,
		refreshRepo: refreshRepo,
		directory:   directory,
		rateLimiter: rateLimiter,
		signing:     signing,
		now:         now,
		slept:       &slept,
	}
}

func testAuthConfig() *config.Config {
	return &config.Config{
		RefreshTokenEnabled: true,
		AuthMinDuration:     500 * time.Millisecond,
	}
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_IssueTokenPair", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())
		subjectID := uuid.Must(uuid.NewV7())

		f.rateLimiter.On("CheckAndRecord", "auth", "10.0.0.1").Return(nil)
		f.directory.On("Authenticate", ctx, "alice", "correct horse").Return(subjectID, nil)
		f.refreshRepo.On("Create", ctx, mock.AnythingOfType("*domain.RefreshToken")).Return(nil)

		pair, err := f.useCase.Login(ctx, &authDomain.Credentials{
			Login:          "alice",
			Password:       "correct horse",
			ClientIdentity: "10.0.0.1",
		}, "req-1")
		require.NoError(t, err)

		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, f.now.Add(24*time.Hour), pair.ExpiresAt)

		// The minted token verifies against the same signing config
		payload, err := f.useCase.VerifyAccessToken(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, subjectID, payload.SubjectID)

		f.refreshRepo.AssertExpectations(t)
	})

	t.Run("Success_RefreshTokensDisabled", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.RefreshTokenEnabled = false
		f := newAuthUseCaseFixture(t, cfg)
		subjectID := uuid.Must(uuid.NewV7())

		f.rateLimiter.On("CheckAndRecord", "auth", "10.0.0.1").Return(nil)
		f.directory.On("Authenticate", ctx, "alice", "correct horse").Return(subjectID, nil)

		pair, err := f.useCase.Login(ctx, &authDomain.Credentials{
			Login:          "alice",
			Password:       "correct horse",
			ClientIdentity: "10.0.0.1",
		}, "req-1")
		require.NoError(t, err)

		assert.NotEmpty(t, pair.AccessToken)
		assert.Empty(t, pair.RefreshToken)
		f.refreshRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())

		f.rateLimiter.On("CheckAndRecord", "auth", "10.0.0.1").Return(nil)
		f.directory.On("Authenticate", ctx, "alice", "wrong").
			Return(uuid.Nil, authDomain.ErrInvalidCredentials)

		pair, err := f.useCase.Login(ctx, &authDomain.Credentials{
			Login:          "alice",
			Password:       "wrong",
			ClientIdentity: "10.0.0.1",
		}, "req-1")
		require.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Nil(t, pair)
	})

	t.Run("Error_RateLimited", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())

		f.rateLimiter.On("CheckAndRecord", "auth", "10.0.0.1").Return(apperrors.ErrRateLimited)

		pair, err := f.useCase.Login(ctx, &authDomain.Credentials{
			Login:          "alice",
			Password:       "correct horse",
			ClientIdentity: "10.0.0.1",
		}, "req-1")
		require.ErrorIs(t, err, apperrors.ErrRateLimited)
		assert.Nil(t, pair)
		f.directory.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingLogin", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())

		f.rateLimiter.On("CheckAndRecord", "auth", "10.0.0.1").Return(nil)

		_, err := f.useCase.Login(ctx, &authDomain.Credentials{
			Password:       "correct horse",
			ClientIdentity: "10.0.0.1",
		}, "req-1")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_SigningConfigMissing", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())
		f.signing.config, f.signing.err = nil, authDomain.ErrConfigurationMissing

		f.rateLimiter.On("CheckAndRecord", "auth", "10.0.0.1").Return(nil)
		f.directory.On("Authenticate", ctx, "alice", "correct horse").Return(uuid.Must(uuid.NewV7()), nil)

		_, err := f.useCase.Login(ctx, &authDomain.Credentials{
			Login:          "alice",
			Password:       "correct horse",
			ClientIdentity: "10.0.0.1",
		}, "req-1")
		require.ErrorIs(t, err, authDomain.ErrConfigurationMissing)
	})
}

func TestAuthUseCase_Login_MinimumDuration(t *testing.T) {
	ctx := context.Background()

	t.Run("sleeps out the floor on success", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())
		subjectID := uuid.Must(uuid.NewV7())

		f.rateLimiter.On("CheckAndRecord", "auth", "10.0.0.1").Return(nil)
		f.directory.On("Authenticate", ctx, "alice", "correct horse").Return(subjectID, nil)
		f.refreshRepo.On("Create", ctx, mock.Anything).Return(nil)

		_, err := f.useCase.Login(ctx, &authDomain.Credentials{
			Login:          "alice",
			Password:       "correct horse",
			ClientIdentity: "10.0.0.1",
		}, "req-1")
		require.NoError(t, err)

		// With a frozen clock no time elapses, so the whole floor is slept
		require.Len(t, *f.slept, 1)
		assert.Equal(t, 500*time.Millisecond, (*f.slept)[0])
	})

	t.Run("sleeps out the floor on failure", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())

		f.rateLimiter.On("CheckAndRecord", "auth", "10.0.0.1").Return(nil)
		f.directory.On("Authenticate", ctx, "alice", "wrong").
			Return(uuid.Nil, authDomain.ErrInvalidCredentials)

		_, err := f.useCase.Login(ctx, &authDomain.Credentials{
			Login:          "alice",
			Password:       "wrong",
			ClientIdentity: "10.0.0.1",
		}, "req-1")
		require.Error(t, err)

		require.Len(t, *f.slept, 1)
		assert.Equal(t, 500*time.Millisecond, (*f.slept)[0])
	})
}

func TestAuthUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RotateRefreshToken", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())
		subjectID := uuid.Must(uuid.NewV7())

		plainToken, tokenHash, err := authService.NewRefreshTokenService().Generate()
		require.NoError(t, err)

		consumed := &authDomain.RefreshToken{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: tokenHash,
			SubjectID: subjectID,
			ExpiresAt: f.now.Add(time.Hour),
			CreatedAt: f.now.Add(-time.Hour),
		}

		f.rateLimiter.On("CheckAndRecord", "refreshToken", "10.0.0.1").Return(nil)
		f.refreshRepo.On("ConsumeByHash", ctx, tokenHash).Return(consumed, nil)
		f.refreshRepo.On("Create", ctx, mock.AnythingOfType("*domain.RefreshToken")).Return(nil)

		pair, err := f.useCase.Refresh(ctx, plainToken, "10.0.0.1", "req-1")
		require.NoError(t, err)

		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, plainToken, pair.RefreshToken)

		payload, err := f.useCase.VerifyAccessToken(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, subjectID, payload.SubjectID)

		f.refreshRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())

		f.rateLimiter.On("CheckAndRecord", "refreshToken", "10.0.0.1").Return(nil)
		f.refreshRepo.On("ConsumeByHash", ctx, mock.AnythingOfType("string")).
			Return(nil, authDomain.ErrRefreshTokenInvalid)

		pair, err := f.useCase.Refresh(ctx, "no-such-token", "10.0.0.1", "req-1")
		require.ErrorIs(t, err, authDomain.ErrRefreshTokenInvalid)
		assert.Nil(t, pair)
	})

	t.Run("Error_ExpiredTokenIsStillConsumed", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())
		subjectID := uuid.Must(uuid.NewV7())

		consumed := &authDomain.RefreshToken{
			ID:        uuid.Must(uuid.NewV7()),
			SubjectID: subjectID,
			ExpiresAt: f.now.Add(-time.Minute),
			CreatedAt: f.now.Add(-time.Hour),
		}

		f.rateLimiter.On("CheckAndRecord", "refreshToken", "10.0.0.1").Return(nil)
		f.refreshRepo.On("ConsumeByHash", ctx, mock.AnythingOfType("string")).Return(consumed, nil)

		pair, err := f.useCase.Refresh(ctx, "expired-token", "10.0.0.1", "req-1")
		require.ErrorIs(t, err, authDomain.ErrRefreshTokenExpired)
		assert.Nil(t, pair)

		// Consumption happened; no replacement was issued
		f.refreshRepo.AssertCalled(t, "ConsumeByHash", ctx, mock.AnythingOfType("string"))
		f.refreshRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_RefreshDisabled", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.RefreshTokenEnabled = false
		f := newAuthUseCaseFixture(t, cfg)

		f.rateLimiter.On("CheckAndRecord", "refreshToken", "10.0.0.1").Return(nil)

		_, err := f.useCase.Refresh(ctx, "some-token", "10.0.0.1", "req-1")
		require.ErrorIs(t, err, authDomain.ErrRefreshTokenInvalid)
		f.refreshRepo.AssertNotCalled(t, "ConsumeByHash", mock.Anything, mock.Anything)
	})

	t.Run("Error_RateLimited", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())

		f.rateLimiter.On("CheckAndRecord", "refreshToken", "10.0.0.1").Return(apperrors.ErrRateLimited)

		_, err := f.useCase.Refresh(ctx, "some-token", "10.0.0.1", "req-1")
		require.ErrorIs(t, err, apperrors.ErrRateLimited)
		f.refreshRepo.AssertNotCalled(t, "ConsumeByHash", mock.Anything, mock.Anything)
	})
}

func TestAuthUseCase_VerifyAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_Garbage", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())

		_, err := f.useCase.VerifyAccessToken(ctx, "not-a-token")
		require.ErrorIs(t, err, authDomain.ErrTokenInvalid)
	})

	t.Run("Error_SigningConfigMissing", func(t *testing.T) {
		f := newAuthUseCaseFixture(t, testAuthConfig())
		f.signing.config, f.signing.err = nil, authDomain.ErrConfigurationMissing

		_, err := f.useCase.VerifyAccessToken(ctx, "whatever")
		require.ErrorIs(t, err, authDomain.ErrConfigurationMissing)
	})
}

func TestAuthUseCase_RevokeRefreshTokens(t *testing.T) {
	ctx := context.Background()
	f := newAuthUseCaseFixture(t, testAuthConfig())
	subjectID := uuid.Must(uuid.NewV7())

	f.refreshRepo.On("DeleteBySubject", ctx, subjectID).Return(int64(3), nil)

	revoked, err := f.useCase.RevokeRefreshTokens(ctx, subjectID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), revoked)
}

func TestAuthUseCase_CleanExpiredRefreshTokens(t *testing.T) {
	ctx := context.Background()
	f := newAuthUseCaseFixture(t, testAuthConfig())

	f.refreshRepo.On("DeleteExpired", ctx, f.now).Return(int64(7), nil)

	removed, err := f.useCase.CleanExpiredRefreshTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
}
