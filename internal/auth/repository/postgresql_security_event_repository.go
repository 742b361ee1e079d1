package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// PostgreSQLSecurityEventRepository implements SecurityEvent persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx().
type PostgreSQLSecurityEventRepository struct {
	db *sql.DB
}

// Create inserts a new SecurityEvent into the PostgreSQL database. Uses
// transaction support via database.GetTx(). Handles nil metadata as database
// NULL. Returns an error if metadata marshaling or database insertion fails.
func (p *PostgreSQLSecurityEventRepository) Create(ctx context.Context, event *authDomain.SecurityEvent) error {
	querier := database.GetTx(ctx, p.db)

	var metadataJSON []byte
	var err error

	// Handle nil metadata as NULL
	if event.Metadata != nil {
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal security event metadata")
		}
	}

	query := `INSERT INTO security_events (id, event_type, subject_id, client_identity, request_id, metadata, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.EventType,
		event.SubjectID,
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
// gracefully by returning nil map for those entries.
func (p *PostgreSQLSecurityEventRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.SecurityEvent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, event_type, subject_id, client_identity, request_id, metadata, created_at
			  FROM security_events
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

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
		var metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.SubjectID,
			&event.ClientIdentity,
			&event.RequestID,
			&metadataJSON,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.WrapUnavailable(err, "failed to scan security event")
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

// NewPostgreSQLSecurityEventRepository creates a new PostgreSQL SecurityEvent repository.
func NewPostgreSQLSecurityEventRepository(db *sql.DB) *PostgreSQLSecurityEventRepository {
	return &PostgreSQLSecurityEventRepository{db: db}
}
