package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authMocks "github.com/allisson/authgate/internal/auth/usecase/mocks"
)

func TestRunListSecurityEvents(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	subjectID := uuid.Must(uuid.NewV7())

	events := []*authDomain.SecurityEvent{
		{
			ID:             uuid.Must(uuid.NewV7()),
			EventType:      authDomain.EventLoginSuccess,
			SubjectID:      &subjectID,
			ClientIdentity: "10.0.0.1",
			RequestID:      "req-1",
			CreatedAt:      time.Now().UTC(),
		},
		{
			ID:             uuid.Must(uuid.NewV7()),
			EventType:      authDomain.EventRateLimitExceeded,
			ClientIdentity: "10.0.0.2",
			RequestID:      "req-2",
			CreatedAt:      time.Now().UTC(),
		},
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &authMocks.MockSecurityEventUseCase{}
		mockUseCase.On("List", ctx, 0, 50).Return(events, nil)

		var out bytes.Buffer
		err := RunListSecurityEvents(ctx, mockUseCase, logger, &out, 0, 50, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "login_success")
		require.Contains(t, out.String(), "rate_limit_exceeded")
		require.Contains(t, out.String(), subjectID.String())
		require.Contains(t, out.String(), "Listed 2 security event(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &authMocks.MockSecurityEventUseCase{}
		mockUseCase.On("List", ctx, 0, 50).Return(events, nil)

		var out bytes.Buffer
		err := RunListSecurityEvents(ctx, mockUseCase, logger, &out, 0, 50, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"event_type": "login_success"`)
		require.Contains(t, out.String(), `"subject_id": "`+subjectID.String()+`"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("no-events", func(t *testing.T) {
		mockUseCase := &authMocks.MockSecurityEventUseCase{}
		mockUseCase.On("List", ctx, 0, 50).Return([]*authDomain.SecurityEvent{}, nil)

		var out bytes.Buffer
		err := RunListSecurityEvents(ctx, mockUseCase, logger, &out, 0, 50, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "No security events found")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("list-error", func(t *testing.T) {
		mockUseCase := &authMocks.MockSecurityEventUseCase{}
		mockUseCase.On("List", ctx, 0, 50).Return(nil, errors.New("storage offline"))

		var out bytes.Buffer
		err := RunListSecurityEvents(ctx, mockUseCase, logger, &out, 0, 50, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to list security events")
		mockUseCase.AssertExpectations(t)
	})
}
