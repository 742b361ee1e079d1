// Package domain defines the authentication domain models: signing
// configuration, access token payloads, refresh tokens, and security events.
package domain

// Supported HMAC signing algorithms for access tokens.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmHS384 = "HS384"
	AlgorithmHS512 = "HS512"
)

// DefaultAlgorithm is used when a deployment does not configure one.
const DefaultAlgorithm = AlgorithmHS256

// SupportedAlgorithm reports whether the algorithm is one the token codec accepts.
func SupportedAlgorithm(algorithm string) bool {
	switch algorithm {
	case AlgorithmHS256, AlgorithmHS384, AlgorithmHS512:
		return true
	default:
		return false
	}
}

// Security event types emitted by the authentication flows.
const (
	EventLoginSuccess         = "login_success"
	EventLoginFailure         = "login_failure"
	EventRefreshSuccess       = "token_refresh_success"
	EventRefreshFailure       = "token_refresh_failure"
	EventRateLimitExceeded    = "rate_limit_exceeded"
	EventKeyRotated           = "signing_key_rotated"
	EventRefreshTokensRevoked = "refresh_tokens_revoked"
)
