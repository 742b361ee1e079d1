// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// TokenResponse contains the result of a login or refresh token exchange.
// SECURITY: the tokens are only returned once and must be saved by the caller.
// RefreshToken is omitted when refresh tokens are disabled.
type TokenResponse struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// MapTokenPairToResponse converts a domain token pair to an API response.
func MapTokenPairToResponse(pair *authDomain.TokenPair) TokenResponse {
	return TokenResponse{
		Token:        pair.AccessToken,
		ExpiresAt:    pair.ExpiresAt,
		RefreshToken: pair.RefreshToken,
	}
}

// PingResponse is the health probe payload for the ping endpoint.
type PingResponse struct {
	Status string `json:"status"`
}
