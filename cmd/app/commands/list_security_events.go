package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
)

// RunListSecurityEvents prints the recorded security events, newest first.
// Used by operators to review login failures, rate limit hits, and key
// rotations without querying the database directly.
func RunListSecurityEvents(
	ctx context.Context,
	useCase authUseCase.SecurityEventUseCase,
	logger *slog.Logger,
	out io.Writer,
	offset, limit int,
	format string,
) error {
	logger.Info("listing security events",
		slog.Int("offset", offset),
		slog.Int("limit", limit),
	)

	events, err := useCase.List(ctx, offset, limit)
	if err != nil {
		return fmt.Errorf("failed to list security events: %w", err)
	}

	if format == "json" {
		outputSecurityEventsJSON(out, events)
	} else {
		outputSecurityEventsText(out, events)
	}

	logger.Info("security events listed", slog.Int("count", len(events)))
	return nil
}

// outputSecurityEventsJSON outputs the events in JSON format for machine consumption.
func outputSecurityEventsJSON(out io.Writer, events []*authDomain.SecurityEvent) {
	results := make([]map[string]interface{}, 0, len(events))
	for _, event := range events {
		result := map[string]interface{}{
			"id":              event.ID.String(),
			"event_type":      event.EventType,
			"client_identity": event.ClientIdentity,
			"request_id":      event.RequestID,
			"metadata":        event.Metadata,
			"created_at":      event.CreatedAt.Format(time.RFC3339),
		}
		if event.SubjectID != nil {
			result["subject_id"] = event.SubjectID.String()
		}
		results = append(results, result)
	}

	jsonBytes, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}

// outputSecurityEventsText outputs the events in human-readable format.
func outputSecurityEventsText(out io.Writer, events []*authDomain.SecurityEvent) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No security events found")
		return
	}

	for _, event := range events {
		subject := "-"
		if event.SubjectID != nil {
			subject = event.SubjectID.String()
		}
		fmt.Fprintf(
			out,
			"%s  %-24s  subject=%s  client=%s\n",
			event.CreatedAt.Format(time.RFC3339),
			event.EventType,
			subject,
			event.ClientIdentity,
		)
	}
	fmt.Fprintf(out, "Listed %d security event(s)\n", len(events))
}
