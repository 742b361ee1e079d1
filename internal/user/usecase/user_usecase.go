package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	userDomain "github.com/allisson/authgate/internal/user/domain"
	userService "github.com/allisson/authgate/internal/user/service"
	appValidation "github.com/allisson/authgate/internal/validation"
)

// userUseCase implements UseCase.
type userUseCase struct {
	repo      UserRepository
	directory *userService.Directory

	now func() time.Time
}

// NewUserUseCase creates a new user provisioning use case.
func NewUserUseCase(repo UserRepository, directory *userService.Directory) UseCase {
	return &userUseCase{
		repo:      repo,
		directory: directory,
		now:       time.Now,
	}
}

// CreateUser provisions a new active user.
func (u *userUseCase) CreateUser(ctx context.Context, login, password string) (*userDomain.User, error) {
	input := struct {
		Login    string
		Password string
	}{Login: login, Password: password}

	err := validation.ValidateStruct(&input,
		validation.Field(&input.Login,
			validation.Required.Error("login is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("login must be between 1 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 1024).Error("password must be between 8 and 1024 characters"),
		),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	passwordHash, err := u.directory.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	user := &userDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Login:        login,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
