package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
)

// RunRevokeRefreshTokens removes all refresh tokens for a subject, forcing
// re-authentication once its outstanding access tokens expire. Used when a
// credential is suspected compromised or an account is deactivated.
func RunRevokeRefreshTokens(
	ctx context.Context,
	useCase authUseCase.AuthUseCase,
	logger *slog.Logger,
	out io.Writer,
	subjectIDStr string,
	format string,
) error {
	subjectID, err := uuid.Parse(subjectIDStr)
	if err != nil {
		return fmt.Errorf("invalid subject id %q: %w", subjectIDStr, err)
	}

	logger.Info("revoking refresh tokens", slog.String("subject_id", subjectID.String()))

	revoked, err := useCase.RevokeRefreshTokens(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	if format == "json" {
		outputRevokeJSON(out, subjectID, revoked)
	} else {
		fmt.Fprintf(out, "Revoked %d refresh token(s) for subject %s\n", revoked, subjectID)
	}

	logger.Info("refresh tokens revoked",
		slog.String("subject_id", subjectID.String()),
		slog.Int64("revoked", revoked),
	)
	return nil
}

// outputRevokeJSON outputs the result in JSON format for machine consumption.
func outputRevokeJSON(out io.Writer, subjectID uuid.UUID, revoked int64) {
	result := map[string]interface{}{
		"subject_id": subjectID.String(),
		"revoked":    revoked,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
