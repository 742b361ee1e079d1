// Package usecase defines business logic interfaces for the authentication core.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// SigningConfigRepository defines persistence operations for the signing
// configuration. Implementations must support transaction-aware operations
// via context propagation.
type SigningConfigRepository interface {
	// Create stores a new signing configuration.
	Create(ctx context.Context, config *authDomain.SigningConfig) error

	// Get retrieves the current signing configuration. Returns
	// ErrConfigurationMissing when none exists.
	Get(ctx context.Context) (*authDomain.SigningConfig, error)

	// UpdateKey replaces the secret key and stamps the rotation time.
	UpdateKey(ctx context.Context, configID uuid.UUID, secretKey string, rotatedAt time.Time) error
}

// RefreshTokenRepository defines persistence operations for refresh tokens.
// Implementations must support transaction-aware operations via context
// propagation.
type RefreshTokenRepository interface {
	// Create stores a new refresh token record.
	Create(ctx context.Context, token *authDomain.RefreshToken) error

	// ConsumeByHash atomically removes and returns the token with the given
	// hash. Concurrent presentations of the same token yield exactly one
	// winner; losers get ErrRefreshTokenInvalid.
	ConsumeByHash(ctx context.Context, tokenHash string) (*authDomain.RefreshToken, error)

	// DeleteBySubject removes all tokens for a subject, returning the count.
	DeleteBySubject(ctx context.Context, subjectID uuid.UUID) (int64, error)

	// DeleteExpired removes tokens expired before the given time, returning the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SecurityEventRepository defines persistence operations for security events.
type SecurityEventRepository interface {
	// Create stores a new security event record.
	Create(ctx context.Context, event *authDomain.SecurityEvent) error

	// List retrieves security events ordered newest first with pagination.
	List(ctx context.Context, offset, limit int) ([]*authDomain.SecurityEvent, error)
}

// SecurityEventUseCase exposes the recorded security events for operator
// inspection.
type SecurityEventUseCase interface {
	// List retrieves security events ordered newest first. Negative offsets
	// are treated as zero and non-positive limits fall back to a default
	// page size.
	List(ctx context.Context, offset, limit int) ([]*authDomain.SecurityEvent, error)
}

// UserDirectory verifies login/password pairs against the user store.
type UserDirectory interface {
	// Authenticate returns the subject id on success. All credential failure
	// modes collapse into ErrInvalidCredentials.
	Authenticate(ctx context.Context, login, password string) (uuid.UUID, error)
}

// AuthUseCase defines the authentication flows: credential login, refresh
// token exchange, bearer token verification, and bulk revocation.
type AuthUseCase interface {
	// Login verifies credentials and issues a token pair. The whole operation
	// takes at least the configured minimum duration regardless of outcome so
	// response timing does not reveal where verification failed.
	//
	// Returns ErrInvalidCredentials for unknown logins, wrong passwords, and
	// inactive users; errors.ErrRateLimited when the client exhausted its
	// attempt budget; ErrConfigurationMissing when no signing configuration
	// exists.
	Login(ctx context.Context, credentials *authDomain.Credentials, requestID string) (*authDomain.TokenPair, error)

	// Refresh exchanges a one-time-use refresh token for a new token pair.
	// The presented token is consumed even when it turns out to be expired.
	//
	// Returns ErrRefreshTokenInvalid for unknown, already-used, or disabled
	// tokens, ErrRefreshTokenExpired past expiry, and errors.ErrRateLimited
	// when the client exhausted its attempt budget.
	Refresh(ctx context.Context, refreshToken, clientIdentity, requestID string) (*authDomain.TokenPair, error)

	// VerifyAccessToken validates a bearer access token and returns its
	// payload. Returns ErrTokenExpired or ErrTokenInvalid on failure.
	VerifyAccessToken(ctx context.Context, accessToken string) (*authDomain.AccessTokenPayload, error)

	// RevokeRefreshTokens removes all refresh tokens for a subject, forcing
	// re-authentication once its access tokens expire. Returns the number of
	// tokens removed.
	RevokeRefreshTokens(ctx context.Context, subjectID uuid.UUID) (int64, error)

	// CleanExpiredRefreshTokens removes refresh tokens that expired before
	// now. Expired tokens are already unusable; this is housekeeping to keep
	// the table small. Returns the number of tokens removed.
	CleanExpiredRefreshTokens(ctx context.Context) (int64, error)
}

// SigningConfigUseCase manages the signing configuration lifecycle: bootstrap,
// cached reads, and key rotation.
type SigningConfigUseCase interface {
	// Current returns the active signing configuration, served from a
	// short-lived cache to keep token verification off the storage hot path.
	Current(ctx context.Context) (*authDomain.SigningConfig, error)

	// Ensure guarantees a signing configuration exists, creating one with a
	// freshly generated key when missing. Called at startup.
	Ensure(ctx context.Context) error

	// Rotate replaces the signing secret key with a newly generated one and
	// invalidates the cache. When onlyIfDue is true, rotation is skipped
	// unless the rotation interval has elapsed. Reports whether a rotation
	// happened.
	//
	// Outstanding access tokens signed with the previous key stop verifying
	// immediately.
	Rotate(ctx context.Context, onlyIfDue bool) (bool, error)
}
