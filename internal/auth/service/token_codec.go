package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// tokenCodec implements TokenCodec with JWTs signed by the HMAC-SHA family.
// Verification uses zero leeway: expiry is an exact comparison, clock skew is
// not compensated.
type tokenCodec struct {
	now func() time.Time
}

// NewTokenCodec creates a new TokenCodec instance.
func NewTokenCodec() TokenCodec {
	return &tokenCodec{now: time.Now}
}

// Mint produces a signed JWT carrying the subject id, issuance, and expiry.
func (t *tokenCodec) Mint(
	subjectID uuid.UUID,
	issuedAt time.Time,
	ttl time.Duration,
	config *authDomain.SigningConfig,
) (string, error) {
	if !authDomain.SupportedAlgorithm(config.Algorithm) {
		return "", authDomain.ErrUnsupportedAlgorithm
	}
	if config.SecretKey == "" {
		return "", authDomain.ErrConfigurationMissing
	}

	issuedAt = issuedAt.UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.GetSigningMethod(config.Algorithm), claims)

	signed, err := token.SignedString([]byte(config.SecretKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}

// Verify decodes and validates a token against the config's key and algorithm.
func (t *tokenCodec) Verify(
	token string,
	config *authDomain.SigningConfig,
) (*authDomain.AccessTokenPayload, error) {
	if !authDomain.SupportedAlgorithm(config.Algorithm) {
		return nil, authDomain.ErrTokenInvalid
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{config.Algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)

	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, authDomain.ErrTokenExpired
		}
		return nil, authDomain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, authDomain.ErrTokenInvalid
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, authDomain.ErrTokenInvalid
	}

	return &authDomain.AccessTokenPayload{
		SubjectID: subjectID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
