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

// PostgreSQLRefreshTokenRepository implements RefreshToken persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx().
type PostgreSQLRefreshTokenRepository struct {
	db *sql.DB
}

// Create inserts a new RefreshToken into the PostgreSQL database. Uses
// transaction support via database.GetTx(). Returns an error if database
// insertion fails.
func (p *PostgreSQLRefreshTokenRepository) Create(ctx context.Context, token *authDomain.RefreshToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO refresh_tokens (id, token_hash, subject_id, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.SubjectID,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.WrapUnavailable(err, "failed to create refresh token")
	}
	return nil
}

// ConsumeByHash atomically deletes the RefreshToken with the given hash and
// returns it. The single DELETE ... RETURNING statement guarantees that two
// concurrent presentations of the same token yield exactly one winner; the
// loser gets ErrRefreshTokenInvalid. Expiry is not checked here, the caller
// inspects the returned token.
func (p *PostgreSQLRefreshTokenRepository) ConsumeByHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.RefreshToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM refresh_tokens
			  WHERE token_hash = $1
			  RETURNING id, token_hash, subject_id, expires_at, created_at`

	var token authDomain.RefreshToken

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TokenHash,
		&token.SubjectID,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrRefreshTokenInvalid
		}
		return nil, apperrors.WrapUnavailable(err, "failed to consume refresh token")
	}

	return &token, nil
}

// DeleteBySubject removes all refresh tokens belonging to a subject and
// returns how many were removed. Used to force re-authentication.
func (p *PostgreSQLRefreshTokenRepository) DeleteBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM refresh_tokens WHERE subject_id = $1`

	result, err := querier.ExecContext(ctx, query, subjectID)
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
func (p *PostgreSQLRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM refresh_tokens WHERE expires_at <= $1`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.WrapUnavailable(err, "failed to delete expired refresh tokens")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.WrapUnavailable(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// NewPostgreSQLRefreshTokenRepository creates a new PostgreSQL RefreshToken repository.
func NewPostgreSQLRefreshTokenRepository(db *sql.DB) *PostgreSQLRefreshTokenRepository {
	return &PostgreSQLRefreshTokenRepository{db: db}
}
