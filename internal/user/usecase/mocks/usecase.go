// Package mocks provides mock implementations of the user use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// MockUserUseCase is a mock implementation of usecase.UseCase.
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) CreateUser(ctx context.Context, login, password string) (*userDomain.User, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}
