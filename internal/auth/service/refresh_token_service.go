package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// refreshTokenService implements RefreshTokenService using SHA-256 for hashing.
type refreshTokenService struct{}

// NewRefreshTokenService creates a new RefreshTokenService instance.
func NewRefreshTokenService() RefreshTokenService {
	return &refreshTokenService{}
}

// Generate creates a new cryptographically secure 32-byte random token value.
// The value is base64 URL-encoded for easy transmission. Returns the plain
// token and its SHA-256 hash.
func (s *refreshTokenService) Generate() (plainToken string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate refresh token")
	}

	plainToken = base64.URLEncoding.EncodeToString(randomBytes)
	tokenHash = s.Hash(plainToken)

	return plainToken, tokenHash, nil
}

// Hash hashes a plain token value using SHA-256. Returns a hex string.
func (s *refreshTokenService) Hash(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}
