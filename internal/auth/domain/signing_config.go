package domain

import (
	"time"

	"github.com/google/uuid"
)

// SigningConfig is the single current signing configuration for a deployment.
// Created once at bootstrap with a randomly generated key; mutated only by the
// rotation operation, which replaces SecretKey and stamps LastRotatedAt.
type SigningConfig struct {
	ID                  uuid.UUID
	SecretKey           string
	Algorithm           string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	KeyRotationInterval time.Duration
	LastRotatedAt       *time.Time
	CreatedAt           time.Time
}

// RotationDue reports whether the key is overdue for rotation at the given
// time, measured from the last rotation or, before any rotation, from creation.
func (c *SigningConfig) RotationDue(now time.Time) bool {
	if c.KeyRotationInterval <= 0 {
		return false
	}
	since := c.CreatedAt
	if c.LastRotatedAt != nil {
		since = *c.LastRotatedAt
	}
	return now.Sub(since) >= c.KeyRotationInterval
}

// AccessTokenPayload is the decoded content of a verified access token.
// Never persisted; it lives only inside the signed token itself.
type AccessTokenPayload struct {
	SubjectID uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
