package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a persisted, server-tracked credential exchangeable for a new
// access token. Only the SHA-256 hash of the opaque token value is stored; the
// plain value is returned once at issuance. Tokens are one-time-use: consuming
// one deletes the record and issues a replacement.
type RefreshToken struct {
	ID        uuid.UUID
	TokenHash string
	SubjectID uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is logically dead at the given time,
// regardless of whether cleanup has removed the row yet.
func (r *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Credentials carries a login attempt through the authentication flow.
type Credentials struct {
	Login          string
	Password       string
	ClientIdentity string
}

// TokenPair is the result of a successful login or refresh. RefreshToken is
// empty when refresh tokens are disabled for the deployment.
type TokenPair struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}
