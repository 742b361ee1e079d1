package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
)

// RunCleanExpiredRefreshTokens deletes refresh tokens past their expiry.
// Expired tokens are already unusable; this is housekeeping meant to run
// from a scheduler.
func RunCleanExpiredRefreshTokens(
	ctx context.Context,
	useCase authUseCase.AuthUseCase,
	logger *slog.Logger,
	out io.Writer,
	format string,
) error {
	logger.Info("cleaning expired refresh tokens")

	removed, err := useCase.CleanExpiredRefreshTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean expired refresh tokens: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{"removed": removed}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
			return nil
		}
		fmt.Fprintln(out, string(jsonBytes))
	} else {
		fmt.Fprintf(out, "Removed %d expired refresh token(s)\n", removed)
	}

	logger.Info("cleanup completed", slog.Int64("removed", removed))
	return nil
}
