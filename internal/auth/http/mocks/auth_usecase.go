// Package mocks provides mock implementations for auth HTTP handler tests.
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
