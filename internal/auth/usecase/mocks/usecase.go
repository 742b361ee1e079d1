// Package mocks provides mock implementations of the auth use cases for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// MockAuthUseCase is a mock implementation of usecase.AuthUseCase.
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(
	ctx context.Context,
	credentials *authDomain.Credentials,
	requestID string,
) (*authDomain.TokenPair, error) {
	args := m.Called(ctx, credentials, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) Refresh(
	ctx context.Context,
	refreshToken, clientIdentity, requestID string,
) (*authDomain.TokenPair, error) {
	args := m.Called(ctx, refreshToken, clientIdentity, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) VerifyAccessToken(
	ctx context.Context,
	accessToken string,
) (*authDomain.AccessTokenPayload, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AccessTokenPayload), args.Error(1)
}

func (m *MockAuthUseCase) RevokeRefreshTokens(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthUseCase) CleanExpiredRefreshTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockSigningConfigUseCase is a mock implementation of usecase.SigningConfigUseCase.
type MockSigningConfigUseCase struct {
	mock.Mock
}

func (m *MockSigningConfigUseCase) Current(ctx context.Context) (*authDomain.SigningConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SigningConfig), args.Error(1)
}

func (m *MockSigningConfigUseCase) Ensure(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSigningConfigUseCase) Rotate(ctx context.Context, onlyIfDue bool) (bool, error) {
	args := m.Called(ctx, onlyIfDue)
	return args.Bool(0), args.Error(1)
}

// MockSecurityEventUseCase is a mock implementation of usecase.SecurityEventUseCase.
type MockSecurityEventUseCase struct {
	mock.Mock
}

func (m *MockSecurityEventUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.SecurityEvent, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.SecurityEvent), args.Error(1)
}
