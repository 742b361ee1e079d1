// Package http provides HTTP handlers and middleware for authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// subjectKey is a context key type for storing the verified token payload.
type subjectKey struct{}

// WithSubject stores the verified access token payload in the context.
// Called by the authentication middleware after successful verification.
func WithSubject(ctx context.Context, payload *authDomain.AccessTokenPayload) context.Context {
	return context.WithValue(ctx, subjectKey{}, payload)
}

// GetSubject retrieves the verified access token payload from the context.
// Returns (payload, true) if present, or (nil, false) if the request was not
// authenticated.
func GetSubject(ctx context.Context) (*authDomain.AccessTokenPayload, bool) {
	payload, ok := ctx.Value(subjectKey{}).(*authDomain.AccessTokenPayload)
	return payload, ok
}
