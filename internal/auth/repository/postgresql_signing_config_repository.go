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

// PostgreSQLSigningConfigRepository implements SigningConfig persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx(). TTLs and the rotation interval are stored as whole
// seconds.
type PostgreSQLSigningConfigRepository struct {
	db *sql.DB
}

// Create inserts a new SigningConfig into the PostgreSQL database. Uses
// transaction support via database.GetTx(). Returns an error if database
// insertion fails.
func (p *PostgreSQLSigningConfigRepository) Create(ctx context.Context, config *authDomain.SigningConfig) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO signing_configs
			  (id, secret_key, algorithm, access_token_ttl, refresh_token_ttl, key_rotation_interval, last_rotated_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		config.ID,
		config.SecretKey,
		config.Algorithm,
		int64(config.AccessTokenTTL.Seconds()),
		int64(config.RefreshTokenTTL.Seconds()),
		int64(config.KeyRotationInterval.Seconds()),
		config.LastRotatedAt,
		config.CreatedAt,
	)
	if err != nil {
		return apperrors.WrapUnavailable(err, "failed to create signing config")
	}
	return nil
}

// Get retrieves the newest SigningConfig from the PostgreSQL database. Uses
// transaction support via database.GetTx(). Returns ErrConfigurationMissing
// if no config exists, or an error if database query fails.
func (p *PostgreSQLSigningConfigRepository) Get(ctx context.Context) (*authDomain.SigningConfig, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret_key, algorithm, access_token_ttl, refresh_token_ttl, key_rotation_interval, last_rotated_at, created_at
			  FROM signing_configs
			  ORDER BY created_at DESC
			  LIMIT 1`

	var config authDomain.SigningConfig
	var accessTTL, refreshTTL, rotationInterval int64

	err := querier.QueryRowContext(ctx, query).Scan(
		&config.ID,
		&config.SecretKey,
		&config.Algorithm,
		&accessTTL,
		&refreshTTL,
		&rotationInterval,
		&config.LastRotatedAt,
		&config.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrConfigurationMissing
		}
		return nil, apperrors.WrapUnavailable(err, "failed to get signing config")
	}

	config.AccessTokenTTL = time.Duration(accessTTL) * time.Second
	config.RefreshTokenTTL = time.Duration(refreshTTL) * time.Second
	config.KeyRotationInterval = time.Duration(rotationInterval) * time.Second

	return &config, nil
}

// UpdateKey replaces the secret key of a SigningConfig and stamps the rotation
// time. Uses transaction support via database.GetTx(). Returns
// ErrConfigurationMissing if the config doesn't exist, or an error if database
// update fails.
func (p *PostgreSQLSigningConfigRepository) UpdateKey(
	ctx context.Context,
	configID uuid.UUID,
	secretKey string,
	rotatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE signing_configs
			  SET secret_key = $1,
				  last_rotated_at = $2
			  WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, secretKey, rotatedAt, configID)
	if err != nil {
		return apperrors.WrapUnavailable(err, "failed to update signing config key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.WrapUnavailable(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return authDomain.ErrConfigurationMissing
	}

	return nil
}

// NewPostgreSQLSigningConfigRepository creates a new PostgreSQL SigningConfig repository.
func NewPostgreSQLSigningConfigRepository(db *sql.DB) *PostgreSQLSigningConfigRepository {
	return &PostgreSQLSigningConfigRepository{db: db}
}
