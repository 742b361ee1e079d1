package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// MySQLRefreshTokenRepository implements RefreshToken persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via
// database.GetTx().
type MySQLRefreshTokenRepository struct {
	db *sql.DB
}

// Create inserts a new RefreshToken into the MySQL database using BINARY(16)
// for UUIDs. Uses transaction support via database.GetTx(). Returns an error
// if UUID marshaling or database insertion fails.
func (m *MySQLRefreshTokenRepository) Create(ctx context.Context, token *authDomain.RefreshToken) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO refresh_tokens (id, token_hash, subject_id, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal refresh token id")
	}

	subjectID, err := token.SubjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subject id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		subjectID,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.WrapUnavailable(err, "failed to create refresh token")
	}
	return nil
}

// ConsumeByHash atomically deletes the RefreshToken with the given hash and
// returns it. MySQL lacks DELETE ... RETURNING, so the row is read first and
// the DELETE acts as the arbiter: of two concurrent presentations of the same
// token, only one DELETE reports an affected row and the loser gets
// ErrRefreshTokenInvalid. Expiry is not checked here, the caller inspects the
// returned token.
func (m *MySQLRefreshTokenRepository) ConsumeByHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.RefreshToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, subject_id, expires_at, created_at
			  FROM refresh_tokens WHERE token_hash = ?`

	var token authDomain.RefreshToken
	var id, subjectID []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&id,
		&token.TokenHash,
		&subjectID,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrRefreshTokenInvalid
		}
		return nil, apperrors.WrapUnavailable(err, "failed to get refresh token")
	}

	if err := token.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal refresh token id")
	}
	if err := token.SubjectID.UnmarshalBinary(subjectID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal subject id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE id = ?`, id)
	if err != nil {
		return nil, apperrors.WrapUnavailable(err, "failed to consume refresh token")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.WrapUnavailable(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		// A concurrent presentation won the race
		return nil, authDomain.ErrRefreshTokenInvalid
	}

	return &token, nil
}

// DeleteBySubject removes all refresh tokens belonging to a subject and
// returns how many were removed. Used to force re-authentication.
func (m *MySQLRefreshTokenRepository) DeleteBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := subjectID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal subject id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE subject_id = ?`, id)
	if err != nil {
		return 0, apperrors.WrapUnavailable(err, "failed to delete refresh tokens by subject")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.WrapUnavailable(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// DeleteExpired removes refresh tokens that expired before the given time and
// returns how many were removed.
func (m *MySQLRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, apperrors.WrapUnavailable(err, "failed to delete expired refresh tokens")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.WrapUnavailable(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// NewMySQLRefreshTokenRepository creates a new MySQL RefreshToken repository.
func NewMySQLRefreshTokenRepository(db *sql.DB) *MySQLRefreshTokenRepository {
	return &MySQLRefreshTokenRepository{db: db}
}
