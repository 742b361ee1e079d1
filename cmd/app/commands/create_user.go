package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	userUseCase "github.com/allisson/authgate/internal/user/usecase"
)

// RunCreateUser provisions a new active user that can authenticate against
// the token endpoints. The password is hashed before storage.
func RunCreateUser(
	ctx context.Context,
	useCase userUseCase.UseCase,
	logger *slog.Logger,
	out io.Writer,
	login, password, format string,
) error {
	logger.Info("creating user", slog.String("login", login))

	user, err := useCase.CreateUser(ctx, login, password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":         user.ID.String(),
			"login":      user.Login,
			"is_active":  user.IsActive,
			"created_at": user.CreatedAt,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
			return nil
		}
		fmt.Fprintln(out, string(jsonBytes))
	} else {
		fmt.Fprintf(out, "User created:\n  ID:    %s\n  Login: %s\n", user.ID, user.Login)
	}

	logger.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}
