package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authService "github.com/allisson/authgate/internal/auth/service"
	"github.com/allisson/authgate/internal/config"
	apperrors "github.com/allisson/authgate/internal/errors"
	appValidation "github.com/allisson/authgate/internal/validation"
)

// Rate limiter endpoint keys.
const (
	RateLimitKeyAuth    = "auth"
	RateLimitKeyRefresh = "refreshToken"
)

// authUseCase implements AuthUseCase: credential login with a uniform minimum
// duration, one-time-use refresh token exchange, and bearer verification.
type authUseCase struct {
	config         *config.Config
	signingConfigs SigningConfigUseCase
	refreshRepo    RefreshTokenRepository
	directory      UserDirectory
	tokenCodec     authService.TokenCodec
	refreshService authService.RefreshTokenService
	rateLimiter    authService.RateLimiter
	securityLog    *authService.SecurityLog

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewAuthUseCase creates a new AuthUseCase.
func NewAuthUseCase(
	cfg *config.Config,
	signingConfigs SigningConfigUseCase,
	refreshRepo RefreshTokenRepository,
	directory UserDirectory,
	tokenCodec authService.TokenCodec,
	refreshService authService.RefreshTokenService,
	rateLimiter authService.RateLimiter,
	securityLog *authService.SecurityLog,
) AuthUseCase {
	return &authUseCase{
		config:         cfg,
		signingConfigs: signingConfigs,
		refreshRepo:    refreshRepo,
		directory:      directory,
		tokenCodec:     tokenCodec,
		refreshService: refreshService,
		rateLimiter:    rateLimiter,
		securityLog:    securityLog,
		now:            time.Now,
		sleep:          sleepContext,
	}
}

// sleepContext sleeps for d or until the context is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func validateCredentials(credentials *authDomain.Credentials) error {
	err := validation.ValidateStruct(credentials,
		validation.Field(&credentials.Login,
			validation.Required.Error("login is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("login must be between 1 and 255 characters"),
		),
		validation.Field(&credentials.Password,
			validation.Required.Error("password is required"),
			validation.Length(1, 1024).Error("password must be between 1 and 1024 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Login verifies credentials and issues a token pair.
//
// Every outcome, success or failure, takes at least Config.AuthMinDuration so
// response timing does not reveal whether the login exists, the password hash
// ran, or rate limiting short-circuited.
func (a *authUseCase) Login(
	ctx context.Context,
	credentials *authDomain.Credentials,
	requestID string,
) (*authDomain.TokenPair, error) {
	start := a.now()
	defer func() {
		if elapsed := a.now().Sub(start); elapsed < a.config.AuthMinDuration {
			a.sleep(ctx, a.config.AuthMinDuration-elapsed)
		}
	}()

	if err := a.rateLimiter.CheckAndRecord(RateLimitKeyAuth, credentials.ClientIdentity); err != nil {
		a.securityLog.Emit(authDomain.NewSecurityEvent(
			authDomain.EventRateLimitExceeded, credentials.ClientIdentity, nil, map[string]any{
				"endpoint":   RateLimitKeyAuth,
				"request_id": requestID,
			}))
		return nil, err
	}

	if err := validateCredentials(credentials); err != nil {
		return nil, err
	}

	subjectID, err := a.directory.Authenticate(ctx, credentials.Login, credentials.Password)
	if err != nil {
		if apperrors.Is(err, authDomain.ErrInvalidCredentials) {
			a.securityLog.Emit(authDomain.NewSecurityEvent(
				authDomain.EventLoginFailure, credentials.ClientIdentity, nil, map[string]any{
					"request_id": requestID,
				}))
		}
		return nil, err
	}

	pair, err := a.issueTokenPair(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	a.securityLog.Emit(authDomain.NewSecurityEvent(
		authDomain.EventLoginSuccess, credentials.ClientIdentity, &subjectID, map[string]any{
			"request_id": requestID,
		}))

	return pair, nil
}

// Refresh exchanges a one-time-use refresh token for a new token pair. The
// presented token is consumed before any further checks, so an expired token
// is gone after this call even though the exchange fails.
func (a *authUseCase) Refresh(
	ctx context.Context,
	refreshToken, clientIdentity, requestID string,
) (*authDomain.TokenPair, error) {
	if err := a.rateLimiter.CheckAndRecord(RateLimitKeyRefresh, clientIdentity); err != nil {
		a.securityLog.Emit(authDomain.NewSecurityEvent(
			authDomain.EventRateLimitExceeded, clientIdentity, nil, map[string]any{
				"endpoint":   RateLimitKeyRefresh,
				"request_id": requestID,
			}))
		return nil, err
	}

	if !a.config.RefreshTokenEnabled || refreshToken == "" {
		return nil, authDomain.ErrRefreshTokenInvalid
	}

	consumed, err := a.refreshRepo.ConsumeByHash(ctx, a.refreshService.Hash(refreshToken))
	if err != nil {
		if apperrors.Is(err, authDomain.ErrRefreshTokenInvalid) {
			a.securityLog.Emit(authDomain.NewSecurityEvent(
				authDomain.EventRefreshFailure, clientIdentity, nil, map[string]any{
					"reason":     "unknown_token",
					"request_id": requestID,
				}))
		}
		return nil, err
	}

	if consumed.Expired(a.now().UTC()) {
		a.securityLog.Emit(authDomain.NewSecurityEvent(
			authDomain.EventRefreshFailure, clientIdentity, &consumed.SubjectID, map[string]any{
				"reason":     "expired_token",
				"request_id": requestID,
			}))
		return nil, authDomain.ErrRefreshTokenExpired
	}

	pair, err := a.issueTokenPair(ctx, consumed.SubjectID)
	if err != nil {
		return nil, err
	}

	a.securityLog.Emit(authDomain.NewSecurityEvent(
		authDomain.EventRefreshSuccess, clientIdentity, &consumed.SubjectID, map[string]any{
			"request_id": requestID,
		}))

	return pair, nil
}

// VerifyAccessToken validates a bearer access token against the current
// signing configuration and returns its payload.
func (a *authUseCase) VerifyAccessToken(
	ctx context.Context,
	accessToken string,
) (*authDomain.AccessTokenPayload, error) {
	signingConfig, err := a.signingConfigs.Current(ctx)
	if err != nil {
		return nil, err
	}

	return a.tokenCodec.Verify(accessToken, signingConfig)
}

// RevokeRefreshTokens removes all refresh tokens for a subject.
func (a *authUseCase) RevokeRefreshTokens(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	revoked, err := a.refreshRepo.DeleteBySubject(ctx, subjectID)
	if err != nil {
		return 0, err
	}

	a.securityLog.Emit(authDomain.NewSecurityEvent(
		authDomain.EventRefreshTokensRevoked, "", &subjectID, map[string]any{
			"revoked": revoked,
		}))

	return revoked, nil
}

// CleanExpiredRefreshTokens removes refresh tokens past their expiry.
func (a *authUseCase) CleanExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return a.refreshRepo.DeleteExpired(ctx, a.now().UTC())
}

// issueTokenPair mints an access token and, when enabled, a fresh refresh
// token for the subject.
func (a *authUseCase) issueTokenPair(ctx context.Context, subjectID uuid.UUID) (*authDomain.TokenPair, error) {
	signingConfig, err := a.signingConfigs.Current(ctx)
	if err != nil {
		return nil, err
	}

	issuedAt := a.now().UTC()
	accessToken, err := a.tokenCodec.Mint(subjectID, issuedAt, signingConfig.AccessTokenTTL, signingConfig)
	if err != nil {
		return nil, err
	}

	pair := &authDomain.TokenPair{
		AccessToken: accessToken,
		ExpiresAt:   issuedAt.Add(signingConfig.AccessTokenTTL),
	}

	if a.config.RefreshTokenEnabled {
		plainToken, tokenHash, err := a.refreshService.Generate()
		if err != nil {
			return nil, err
		}

		record := &authDomain.RefreshToken{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: tokenHash,
			SubjectID: subjectID,
			ExpiresAt: issuedAt.Add(signingConfig.RefreshTokenTTL),
			CreatedAt: issuedAt,
		}
		if err := a.refreshRepo.Create(ctx, record); err != nil {
			return nil, err
		}

		pair.RefreshToken = plainToken
	}

	return pair, nil
}
