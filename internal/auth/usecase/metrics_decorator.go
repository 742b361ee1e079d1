package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", operation, status)
	a.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Login records metrics for login operations.
func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	credentials *authDomain.Credentials,
	requestID string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.Login(ctx, credentials, requestID)
	a.record(ctx, "login", start, err)
	return pair, err
}

// Refresh records metrics for refresh token exchanges.
func (a *authUseCaseWithMetrics) Refresh(
	ctx context.Context,
	refreshToken, clientIdentity, requestID string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.Refresh(ctx, refreshToken, clientIdentity, requestID)
	a.record(ctx, "refresh", start, err)
	return pair, err
}

// VerifyAccessToken records metrics for bearer verification.
func (a *authUseCaseWithMetrics) VerifyAccessToken(
	ctx context.Context,
	accessToken string,
) (*authDomain.AccessTokenPayload, error) {
	start := time.Now()
	payload, err := a.next.VerifyAccessToken(ctx, accessToken)
	a.record(ctx, "verify", start, err)
	return payload, err
}

// RevokeRefreshTokens records metrics for bulk revocations.
func (a *authUseCaseWithMetrics) RevokeRefreshTokens(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	start := time.Now()
	revoked, err := a.next.RevokeRefreshTokens(ctx, subjectID)
	a.record(ctx, "revoke_refresh_tokens", start, err)
	return revoked, err
}

// CleanExpiredRefreshTokens records metrics for expired token sweeps.
func (a *authUseCaseWithMetrics) CleanExpiredRefreshTokens(ctx context.Context) (int64, error) {
	start := time.Now()
	removed, err := a.next.CleanExpiredRefreshTokens(ctx)
	a.record(ctx, "clean_expired_refresh_tokens", start, err)
	return removed, err
}

// signingConfigUseCaseWithMetrics decorates SigningConfigUseCase with metrics
// instrumentation.
type signingConfigUseCaseWithMetrics struct {
	next    SigningConfigUseCase
	metrics metrics.BusinessMetrics
}

// NewSigningConfigUseCaseWithMetrics wraps a SigningConfigUseCase with metrics recording.
func NewSigningConfigUseCaseWithMetrics(useCase SigningConfigUseCase, m metrics.BusinessMetrics) SigningConfigUseCase {
	return &signingConfigUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Current is not instrumented: it runs on every verified request and is
// usually a cache hit, so per-call metrics would only add noise.
func (s *signingConfigUseCaseWithMetrics) Current(ctx context.Context) (*authDomain.SigningConfig, error) {
	return s.next.Current(ctx)
}

// Ensure records metrics for bootstrap runs.
func (s *signingConfigUseCaseWithMetrics) Ensure(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ensure(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "signing_config", "ensure", status)
	s.metrics.RecordDuration(ctx, "signing_config", "ensure", time.Since(start), status)

	return err
}

// Rotate records metrics for key rotations.
func (s *signingConfigUseCaseWithMetrics) Rotate(ctx context.Context, onlyIfDue bool) (bool, error) {
	start := time.Now()
	rotated, err := s.next.Rotate(ctx, onlyIfDue)

	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "signing_config", "rotate", status)
	s.metrics.RecordDuration(ctx, "signing_config", "rotate", time.Since(start), status)

	return rotated, err
}
