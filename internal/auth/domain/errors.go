package domain

import (
	"github.com/allisson/authgate/internal/errors"
)

// Authentication errors. All 401-class failures wrap errors.ErrUnauthorized so
// handlers can treat them uniformly while use cases still distinguish them.
var (
	// ErrInvalidCredentials indicates the login/password pair was rejected.
	// Deliberately covers both unknown logins and wrong passwords.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrMissingCredential indicates the Authorization header was absent or malformed.
	ErrMissingCredential = errors.Wrap(errors.ErrUnauthorized, "missing credential")

	// ErrTokenInvalid indicates an access token failed signature or structural checks.
	ErrTokenInvalid = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrTokenExpired indicates an access token is past its expiry.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "expired token")

	// ErrRefreshTokenInvalid indicates a refresh token is unknown or already consumed.
	ErrRefreshTokenInvalid = errors.Wrap(errors.ErrUnauthorized, "invalid refresh token")

	// ErrRefreshTokenExpired indicates a refresh token is past its expiry.
	ErrRefreshTokenExpired = errors.Wrap(errors.ErrUnauthorized, "expired refresh token")

	// ErrConfigurationMissing indicates no signing configuration exists. A fatal
	// startup precondition in the embedding server, surfaced as a typed error so
	// request paths can answer with a 5xx instead of crashing.
	ErrConfigurationMissing = errors.New("signing configuration missing")

	// ErrUnsupportedAlgorithm indicates the configured signing algorithm is not
	// supported by the token codec.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)
