// Package service provides technical services for the authentication core:
// access token encoding/verification, signing key generation, opaque refresh
// token generation, fixed-window rate limiting, and security event dispatch.
package service

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// TokenCodec encodes and verifies signed access tokens against a signing
// configuration. Stateless given a config; pure function of inputs and the
// current time.
type TokenCodec interface {
	// Mint produces a signed token embedding the subject, issuance time, and
	// expiry (issuedAt + ttl), using the config's secret key and algorithm.
	Mint(
		subjectID uuid.UUID,
		issuedAt time.Time,
		ttl time.Duration,
		config *authDomain.SigningConfig,
	) (string, error)

	// Verify decodes and validates a token against the config. Returns
	// ErrTokenExpired when past expiry, ErrTokenInvalid for signature
	// mismatches, malformed structures, and unsupported algorithms. Empty or
	// garbage input is ErrTokenInvalid, never a panic.
	Verify(token string, config *authDomain.SigningConfig) (*authDomain.AccessTokenPayload, error)
}

// KeyGenerator produces random signing secrets.
type KeyGenerator interface {
	// Generate returns a new secret of SecretKeyLength characters drawn from
	// the signing key alphabet using a cryptographically secure source.
	Generate() (string, error)
}

// RefreshTokenService generates and hashes opaque refresh token values.
// The plain value goes to the caller once; only the hash is persisted.
type RefreshTokenService interface {
	// Generate creates a new cryptographically secure random token value.
	// Returns the plain token and its SHA-256 hash.
	Generate() (plainToken string, tokenHash string, err error)

	// Hash hashes a plain token value for storage lookup.
	Hash(plainToken string) string
}

// RateLimiter admits or rejects attempts per (endpoint, client identity) pair.
// Implementations must be safe for concurrent use; increments for the same key
// must not race to under-count.
type RateLimiter interface {
	// CheckAndRecord counts an attempt against the endpoint's budget for the
	// client. Returns errors.ErrRateLimited (wrapped) when the budget is
	// exhausted; exhausted windows are not incremented further.
	CheckAndRecord(endpointKey, clientIdentity string) error
}
