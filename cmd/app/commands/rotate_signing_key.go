package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
)

// RunRotateSigningKey replaces the token signing secret key with a freshly
// generated one. With ifDue set, rotation only happens when the configured
// rotation interval has elapsed, making the command safe to run from a
// scheduler.
//
// Outstanding access tokens signed with the previous key stop verifying
// immediately; refresh tokens are unaffected.
func RunRotateSigningKey(
	ctx context.Context,
	useCase authUseCase.SigningConfigUseCase,
	logger *slog.Logger,
	out io.Writer,
	ifDue bool,
	format string,
) error {
	logger.Info("rotating signing key", slog.Bool("if_due", ifDue))

	rotated, err := useCase.Rotate(ctx, ifDue)
	if err != nil {
		return fmt.Errorf("failed to rotate signing key: %w", err)
	}

	if format == "json" {
		outputRotateJSON(out, rotated, ifDue)
	} else {
		outputRotateText(out, rotated, ifDue)
	}

	logger.Info("signing key rotation finished", slog.Bool("rotated", rotated))
	return nil
}

// outputRotateText outputs the result in human-readable text format.
func outputRotateText(out io.Writer, rotated, ifDue bool) {
	switch {
	case rotated:
		fmt.Fprintln(out, "Signing key rotated successfully")
	case ifDue:
		fmt.Fprintln(out, "Signing key rotation not due yet, skipped")
	default:
		fmt.Fprintln(out, "Signing key was not rotated")
	}
}

// outputRotateJSON outputs the result in JSON format for machine consumption.
func outputRotateJSON(out io.Writer, rotated, ifDue bool) {
	result := map[string]interface{}{
		"rotated": rotated,
		"if_due":  ifDue,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
