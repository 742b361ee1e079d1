package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// MySQLSecurityEventRepository implements SecurityEvent persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via
// database.GetTx().
type MySQLSecurityEventRepository struct {
	db *sql.DB
}

// Create inserts a new SecurityEvent into the MySQL database using BINARY(16)
// for UUIDs. Handles nil metadata and nil subject as database NULL. Returns an
// error if UUID/metadata marshaling or database insertion fails.
func (m *MySQLSecurityEventRepository) Create(ctx context.Context, event *authDomain.SecurityEvent) error {
	querier := database.GetTx(ctx, m.db)

	var metadataJSON []byte
	var err error

	// Handle nil metadata as NULL
	if event.Metadata != nil {
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal security event metadata")
		}
	}

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal security event id")
	}

	var subjectID []byte
	if event.SubjectID != nil {
		subjectID, err = event.SubjectID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal subject id")
		}
	}

	query := `INSERT INTO security_events (id, event_type, subject_id, client_identity, request_id, metadata, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		event.EventType,
		subjectID,
		event.ClientIdentity,
		event.RequestID,
		metadataJSON,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.WrapUnavailable(err, "failed to create security event")
	}

	return nil
}

// List retrieves security events ordered by ID descending (newest first) with
// pagination. Returns empty slice if no events found. Handles NULL metadata
// and NULL subject gracefully.
func (m *MySQLSecurityEventRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.SecurityEvent, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, event_type, subject_id, client_identity, request_id, metadata, created_at
			  FROM security_events
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.WrapUnavailable(err, "failed to list security events")
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*authDomain.SecurityEvent, 0)
	for rows.Next() {
		var event authDomain.SecurityEvent
		var id, subjectID, metadataJSON []byte

		err := rows.Scan(
			&id,
			&event.EventType,
			&subjectID,
			&event.ClientIdentity,
			&event.RequestID,
			&metadataJSON,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.WrapUnavailable(err, "failed to scan security event")
		}

		if err := event.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal security event id")
		}

		if subjectID != nil {
			var subject uuid.UUID
			if err := subject.UnmarshalBinary(subjectID); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal subject id")
			}
			event.SubjectID = &subject
		}

		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal security event metadata")
			}
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapUnavailable(err, "failed to iterate security events")
	}

	return events, nil
}

// NewMySQLSecurityEventRepository creates a new MySQL SecurityEvent repository.
func NewMySQLSecurityEventRepository(db *sql.DB) *MySQLSecurityEventRepository {
	return &MySQLSecurityEventRepository{db: db}
}
