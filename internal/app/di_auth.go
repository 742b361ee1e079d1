package app

import (
	"fmt"

	authHTTP "github.com/allisson/authgate/internal/auth/http"
	authRepository "github.com/allisson/authgate/internal/auth/repository"
	authService "github.com/allisson/authgate/internal/auth/service"
	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
	userRepository "github.com/allisson/authgate/internal/user/repository"
	userService "github.com/allisson/authgate/internal/user/service"
	userUseCase "github.com/allisson/authgate/internal/user/usecase"
)

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// UserDirectory returns the credential verification service.
func (c *Container) UserDirectory() (*userService.Directory, error) {
	var err error
	c.userDirectoryInit.Do(func() {
		c.userDirectory, err = c.initUserDirectory()
		if err != nil {
			c.initErrors["userDirectory"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userDirectory"]; exists {
		return nil, storedErr
	}
	return c.userDirectory, nil
}

// UserUseCase returns the user provisioning use case.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// SigningConfigRepository returns the signing config repository based on database driver.
func (c *Container) SigningConfigRepository() (authUseCase.SigningConfigRepository, error) {
	var err error
	c.signingConfigRepoInit.Do(func() {
		c.signingConfigRepo, err = c.initSigningConfigRepository()
		if err != nil {
			c.initErrors["signingConfigRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["signingConfigRepo"]; exists {
		return nil, storedErr
	}
	return c.signingConfigRepo, nil
}

// RefreshTokenRepository returns the refresh token repository based on database driver.
func (c *Container) RefreshTokenRepository() (authUseCase.RefreshTokenRepository, error) {
	var err error
	c.refreshTokenRepoInit.Do(func() {
		c.refreshTokenRepo, err = c.initRefreshTokenRepository()
		if err != nil {
			c.initErrors["refreshTokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["refreshTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.refreshTokenRepo, nil
}

// SecurityEventRepository returns the security event repository based on database driver.
func (c *Container) SecurityEventRepository() (authUseCase.SecurityEventRepository, error) {
	var err error
	c.securityEventRepoInit.Do(func() {
		c.securityEventRepo, err = c.initSecurityEventRepository()
		if err != nil {
			c.initErrors["securityEventRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["securityEventRepo"]; exists {
		return nil, storedErr
	}
	return c.securityEventRepo, nil
}

// SecurityLog returns the asynchronous security event dispatcher.
func (c *Container) SecurityLog() (*authService.SecurityLog, error) {
	var err error
	c.securityLogInit.Do(func() {
		c.securityLog, err = c.initSecurityLog()
		if err != nil {
			c.initErrors["securityLog"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["securityLog"]; exists {
		return nil, storedErr
	}
	return c.securityLog, nil
}

// RateLimiter returns the per-client fixed window rate limiter.
func (c *Container) RateLimiter() *authService.FixedWindowRateLimiter {
	c.rateLimiterInit.Do(func() {
		c.rateLimiter = c.initRateLimiter()
	})
	return c.rateLimiter
}

// SigningConfigUseCase returns the signing configuration use case.
func (c *Container) SigningConfigUseCase() (authUseCase.SigningConfigUseCase, error) {
	var err error
	c.signingConfigUseCaseInit.Do(func() {
		c.signingConfigUseCase, err = c.initSigningConfigUseCase()
		if err != nil {
			c.initErrors["signingConfigUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["signingConfigUseCase"]; exists {
		return nil, storedErr
	}
	return c.signingConfigUseCase, nil
}

// AuthUseCase returns the authentication use case.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// SecurityEventUseCase returns the security event inspection use case.
func (c *Container) SecurityEventUseCase() (authUseCase.SecurityEventUseCase, error) {
	var err error
	c.securityEventUseCaseInit.Do(func() {
		c.securityEventUseCase, err = c.initSecurityEventUseCase()
		if err != nil {
			c.initErrors["securityEventUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["securityEventUseCase"]; exists {
		return nil, storedErr
	}
	return c.securityEventUseCase, nil
}

// AuthHandler returns the HTTP handler for authentication operations.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.initErrors["authHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

// initUserRepository creates the user repository based on the database driver.
func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserDirectory creates the credential verification service.
func (c *Container) initUserDirectory() (*userService.Directory, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user directory: %w", err)
	}

	return userService.NewDirectory(userRepo)
}

// initUserUseCase creates the user provisioning use case.
func (c *Container) initUserUseCase() (userUseCase.UseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	directory, err := c.UserDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get user directory for user use case: %w", err)
	}

	return userUseCase.NewUserUseCase(userRepo, directory), nil
}

// initSigningConfigRepository creates the signing config repository based on the database driver.
func (c *Container) initSigningConfigRepository() (authUseCase.SigningConfigRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for signing config repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLSigningConfigRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLSigningConfigRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRefreshTokenRepository creates the refresh token repository based on the database driver.
func (c *Container) initRefreshTokenRepository() (authUseCase.RefreshTokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for refresh token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLRefreshTokenRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLRefreshTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecurityEventRepository creates the security event repository based on the database driver.
func (c *Container) initSecurityEventRepository() (authUseCase.SecurityEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for security event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLSecurityEventRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLSecurityEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecurityLog creates the asynchronous security event dispatcher.
func (c *Container) initSecurityLog() (*authService.SecurityLog, error) {
	writer, err := c.SecurityEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get security event repository for security log: %w", err)
	}

	return authService.NewSecurityLog(writer, c.config.SecurityEventBufferSize, c.Logger()), nil
}

// initRateLimiter creates the per-client rate limiter with the configured budgets.
func (c *Container) initRateLimiter() *authService.FixedWindowRateLimiter {
	return authService.NewFixedWindowRateLimiter(map[string]authService.RateLimitRule{
		authUseCase.RateLimitKeyAuth: {
			MaxAttempts: c.config.RateLimitAuthMaxAttempts,
			Window:      c.config.RateLimitAuthWindow,
		},
		authUseCase.RateLimitKeyRefresh: {
			MaxAttempts: c.config.RateLimitRefreshMaxAttempts,
			Window:      c.config.RateLimitRefreshWindow,
		},
	})
}

// initSigningConfigUseCase creates the signing configuration use case with all its dependencies.
func (c *Container) initSigningConfigUseCase() (authUseCase.SigningConfigUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for signing config use case: %w", err)
	}

	repo, err := c.SigningConfigRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get signing config repository for signing config use case: %w", err)
	}

	securityLog, err := c.SecurityLog()
	if err != nil {
		return nil, fmt.Errorf("failed to get security log for signing config use case: %w", err)
	}

	baseUseCase := authUseCase.NewSigningConfigUseCase(
		c.config,
		txManager,
		repo,
		authService.NewKeyGenerator(),
		securityLog,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for signing config use case: %w", err)
		}
		return authUseCase.NewSigningConfigUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAuthUseCase creates the authentication use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	signingConfigs, err := c.SigningConfigUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get signing config use case for auth use case: %w", err)
	}

	refreshRepo, err := c.RefreshTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token repository for auth use case: %w", err)
	}

	directory, err := c.UserDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get user directory for auth use case: %w", err)
	}

	securityLog, err := c.SecurityLog()
	if err != nil {
		return nil, fmt.Errorf("failed to get security log for auth use case: %w", err)
	}

	baseUseCase := authUseCase.NewAuthUseCase(
		c.config,
		signingConfigs,
		refreshRepo,
		directory,
		authService.NewTokenCodec(),
		authService.NewRefreshTokenService(),
		c.RateLimiter(),
		securityLog,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initSecurityEventUseCase creates the security event inspection use case.
func (c *Container) initSecurityEventUseCase() (authUseCase.SecurityEventUseCase, error) {
	repo, err := c.SecurityEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get security event repository for security event use case: %w", err)
	}

	return authUseCase.NewSecurityEventUseCase(repo), nil
}

// initAuthHandler creates the auth HTTP handler with all its dependencies.
func (c *Container) initAuthHandler() (*authHTTP.AuthHandler, error) {
	useCase, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for auth handler: %w", err)
	}

	return authHTTP.NewAuthHandler(useCase, c.Logger()), nil
}
