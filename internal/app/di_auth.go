package app

import (
	"fmt"

	authService "github.com/teranga/caisse/internal/auth/service"
	authUsecase "github.com/teranga/caisse/internal/auth/usecase"
	identityRepository "github.com/teranga/caisse/internal/identity/repository"
)

// PasswordService returns the password hashing service instance.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	var err error
	c.passwordSvcInit.Do(func() {
		c.passwordSvc, err = authService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordSvc"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passwordSvc"]; exists {
		return nil, storedErr
	}
	return c.passwordSvc, nil
}

// TokenService returns the token service instance.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenSvcInit.Do(func() {
		c.tokenSvc, err = authService.NewJWTTokenService(
			c.config.AccessTokenSecret,
			c.config.RefreshTokenSecret,
			c.config.AccessTokenExpiration,
			c.config.RefreshTokenExpiration,
		)
		if err != nil {
			c.initErrors["tokenSvc"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenSvc"]; exists {
		return nil, storedErr
	}
	return c.tokenSvc, nil
}

// AuthUseCase returns the authentication use case instance.
func (c *Container) AuthUseCase() (authUsecase.UseCase, error) {
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

// initAuthUseCase creates the auth use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUsecase.UseCase, error) {
	logger := c.Logger()

	identityRepo, err := c.authIdentityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity repository for auth use case: %w", err)
	}

	tokenSvc, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for auth use case: %w", err)
	}

	passwordSvc, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for auth use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
	}

	useCase := authUsecase.NewAuthUseCase(
		identityRepo,
		tokenSvc,
		passwordSvc,
		c.config.LoginMaxFailures,
		logger,
	)

	return authUsecase.NewAuthUseCaseWithMetrics(useCase, businessMetrics), nil
}

// authIdentityRepository returns the identity repository under the narrower
// interface the auth use case needs (lookup plus login-state updates).
func (c *Container) authIdentityRepository() (authUsecase.IdentityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for auth identity repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return identityRepository.NewMySQLIdentityRepository(db), nil
	case "postgres":
		return identityRepository.NewPostgreSQLIdentityRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
