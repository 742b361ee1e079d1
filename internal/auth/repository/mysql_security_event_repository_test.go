package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
)

func TestMySQLSecurityEventRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLSecurityEventRepository(db)

	subjectID := uuid.Must(uuid.NewV7())
	event := &authDomain.SecurityEvent{
		ID:             uuid.Must(uuid.NewV7()),
		EventType:      authDomain.EventLoginSuccess,
		SubjectID:      &subjectID,
		ClientIdentity: "10.0.0.1",
		RequestID:      "req-1",
		Metadata:       map[string]any{"login": "alice"},
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO security_events`)).
		WithArgs(
			mustMarshalUUID(t, event.ID),
			event.EventType,
			mustMarshalUUID(t, subjectID),
			event.ClientIdentity,
			event.RequestID,
			[]byte(`{"login":"alice"}`),
			event.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), event)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSecurityEventRepository_Create_NilSubjectAndMetadata(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLSecurityEventRepository(db)

	event := &authDomain.SecurityEvent{
		ID:             uuid.Must(uuid.NewV7()),
		EventType:      authDomain.EventRateLimitExceeded,
		ClientIdentity: "10.0.0.2",
		RequestID:      "req-2",
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO security_events`)).
		WithArgs(
			mustMarshalUUID(t, event.ID),
			event.EventType,
			nil,
			event.ClientIdentity,
			event.RequestID,
			nil,
			event.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), event)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSecurityEventRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLSecurityEventRepository(db)

	eventID := uuid.Must(uuid.NewV7())
	subjectID := uuid.Must(uuid.NewV7())
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "event_type", "subject_id", "client_identity", "request_id", "metadata", "created_at",
	}).AddRow(
		mustMarshalUUID(t, eventID),
		authDomain.EventLoginSuccess,
		mustMarshalUUID(t, subjectID),
		"10.0.0.1",
		"req-1",
		[]byte(`{"login":"alice"}`),
		createdAt,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, event_type, subject_id, client_identity, request_id, metadata, created_at`)).
		WithArgs(10, 0).
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, eventID, events[0].ID)
	assert.Equal(t, authDomain.EventLoginSuccess, events[0].EventType)
	require.NotNil(t, events[0].SubjectID)
	assert.Equal(t, subjectID, *events[0].SubjectID)
	assert.Equal(t, "10.0.0.1", events[0].ClientIdentity)
	assert.Equal(t, map[string]any{"login": "alice"}, events[0].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSecurityEventRepository_List_NullSubjectAndMetadata(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLSecurityEventRepository(db)

	eventID := uuid.Must(uuid.NewV7())
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "event_type", "subject_id", "client_identity", "request_id", "metadata", "created_at",
	}).AddRow(
		mustMarshalUUID(t, eventID),
		authDomain.EventRateLimitExceeded,
		nil,
		"10.0.0.2",
		"req-2",
		nil,
		createdAt,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, event_type, subject_id, client_identity, request_id, metadata, created_at`)).
		WithArgs(10, 0).
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Nil(t, events[0].SubjectID)
	assert.Nil(t, events[0].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSecurityEventRepository_List_DriverError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLSecurityEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, event_type, subject_id, client_identity, request_id, metadata, created_at`)).
		WithArgs(10, 0).
		WillReturnError(errors.New("connection reset by peer"))

	events, err := repo.List(context.Background(), 0, 10)
	require.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.Nil(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}
