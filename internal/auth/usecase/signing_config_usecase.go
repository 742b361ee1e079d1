// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authService "github.com/allisson/authgate/internal/auth/service"
	"github.com/allisson/authgate/internal/config"
	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// signingConfigUseCase implements SigningConfigUseCase with a short-lived
// read cache in front of the repository.
//
// Current serves from the cache while it is fresh; after the TTL the next
// caller re-reads storage. Rotate invalidates the cache under the same lock it
// uses to serialize rotations, so a rotation is never hidden longer than one
// in-flight read.
type signingConfigUseCase struct {
	config       *config.Config
	txManager    database.TxManager
	repo         SigningConfigRepository
	keyGenerator authService.KeyGenerator
	securityLog  *authService.SecurityLog

	mu       sync.RWMutex
	cached   *authDomain.SigningConfig
	cachedAt time.Time
	reload   singleflight.Group

	rotateMu sync.Mutex

	now func() time.Time
}

// NewSigningConfigUseCase creates a new SigningConfigUseCase.
func NewSigningConfigUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	repo SigningConfigRepository,
	keyGenerator authService.KeyGenerator,
	securityLog *authService.SecurityLog,
) SigningConfigUseCase {
	return &signingConfigUseCase{
		config:       cfg,
		txManager:    txManager,
		repo:         repo,
		keyGenerator: keyGenerator,
		securityLog:  securityLog,
		now:          time.Now,
	}
}

// Current returns the active signing configuration, re-reading storage once
// the cache TTL has elapsed.
func (s *signingConfigUseCase) Current(ctx context.Context) (*authDomain.SigningConfig, error) {
	s.mu.RLock()
	if s.cached != nil && s.now().Sub(s.cachedAt) < s.config.SigningConfigCacheTTL {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	// Collapse concurrent cache misses into a single storage read; token
	// verification calls this on every request.
	value, err, _ := s.reload.Do("current", func() (any, error) {
		config, err := s.repo.Get(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cached = config
		s.cachedAt = s.now()
		s.mu.Unlock()

		return config, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*authDomain.SigningConfig), nil
}

// Ensure guarantees a signing configuration exists, creating one from the
// application defaults when missing.
func (s *signingConfigUseCase) Ensure(ctx context.Context) error {
	_, err := s.repo.Get(ctx)
	if err == nil {
		return nil
	}
	if !apperrors.Is(err, authDomain.ErrConfigurationMissing) {
		return err
	}

	secretKey, err := s.keyGenerator.Generate()
	if err != nil {
		return err
	}

	algorithm := s.config.SigningAlgorithm
	if !authDomain.SupportedAlgorithm(algorithm) {
		algorithm = authDomain.DefaultAlgorithm
	}

	config := &authDomain.SigningConfig{
		ID:                  uuid.Must(uuid.NewV7()),
		SecretKey:           secretKey,
		Algorithm:           algorithm,
		AccessTokenTTL:      s.config.AccessTokenTTL,
		RefreshTokenTTL:     s.config.RefreshTokenTTL,
		KeyRotationInterval: s.config.KeyRotationInterval,
		CreatedAt:           s.now().UTC(),
	}

	return s.repo.Create(ctx, config)
}

// Rotate replaces the signing secret key. Rotations are serialized; each one
// invalidates the read cache so verification picks up the new key on the next
// request.
func (s *signingConfigUseCase) Rotate(ctx context.Context, onlyIfDue bool) (bool, error) {
	s.rotateMu.Lock()
	defer s.rotateMu.Unlock()

	var rotated bool
	var configID uuid.UUID

	// The read and the key update run in one transaction so a concurrent
	// rotation from another process cannot interleave between them.
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		// Bypass the cache: rotation decisions must see the stored state
		config, err := s.repo.Get(ctx)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		if onlyIfDue && !config.RotationDue(now) {
			return nil
		}

		secretKey, err := s.keyGenerator.Generate()
		if err != nil {
			return err
		}

		if err := s.repo.UpdateKey(ctx, config.ID, secretKey, now); err != nil {
			return err
		}

		rotated = true
		configID = config.ID
		return nil
	})
	if err != nil {
		return false, err
	}
	if !rotated {
		return false, nil
	}

	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	s.securityLog.Emit(authDomain.NewSecurityEvent(authDomain.EventKeyRotated, "", nil, map[string]any{
		"config_id": configID.String(),
		"forced":    !onlyIfDue,
	}))

	return true, nil
}
