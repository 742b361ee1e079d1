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

// MySQLSigningConfigRepository implements SigningConfig persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via
// database.GetTx(). TTLs and the rotation interval are stored as whole
// seconds.
type MySQLSigningConfigRepository struct {
	db *sql.DB
}

// Create inserts a new SigningConfig into the MySQL database using BINARY(16)
// for UUIDs. Uses transaction support via database.GetTx(). Returns an error
// if UUID marshaling or database insertion fails.
func (m *MySQLSigningConfigRepository) Create(ctx context.Context, config *authDomain.SigningConfig) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO signing_configs
			  (id, secret_key, algorithm, access_token_ttl, refresh_token_ttl, key_rotation_interval, last_rotated_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := config.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal signing config id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Get retrieves the newest SigningConfig from the MySQL database. Returns
// ErrConfigurationMissing if no config exists, or an error if database query
// fails.
func (m *MySQLSigningConfigRepository) Get(ctx context.Context) (*authDomain.SigningConfig, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret_key, algorithm, access_token_ttl, refresh_token_ttl, key_rotation_interval, last_rotated_at, created_at
			  FROM signing_configs
			  ORDER BY created_at DESC
			  LIMIT 1`

	var config authDomain.SigningConfig
	var id []byte
	var accessTTL, refreshTTL, rotationInterval int64

	err := querier.QueryRowContext(ctx, query).Scan(
		&id,
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

	if err := config.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal signing config id")
	}

	config.AccessTokenTTL = time.Duration(accessTTL) * time.Second
	config.RefreshTokenTTL = time.Duration(refreshTTL) * time.Second
	config.KeyRotationInterval = time.Duration(rotationInterval) * time.Second

	return &config, nil
}

// UpdateKey replaces the secret key of a SigningConfig and stamps the rotation
// time. Returns ErrConfigurationMissing if the config doesn't exist, or an
// error if UUID marshaling or database update fails.
func (m *MySQLSigningConfigRepository) UpdateKey(
	ctx context.Context,
	configID uuid.UUID,
	secretKey string,
	rotatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE signing_configs
			  SET secret_key = ?,
				  last_rotated_at = ?
			  WHERE id = ?`

	id, err := configID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal signing config id")
	}

	result, err := querier.ExecContext(ctx, query, secretKey, rotatedAt, id)
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

// NewMySQLSigningConfigRepository creates a new MySQL SigningConfig repository.
func NewMySQLSigningConfigRepository(db *sql.DB) *MySQLSigningConfigRepository {
	return &MySQLSigningConfigRepository{db: db}
}
