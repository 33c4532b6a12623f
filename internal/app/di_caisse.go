package app

import (
	"fmt"

	caisseRepository "github.com/teranga/caisse/internal/caisse/repository"
	caisseUsecase "github.com/teranga/caisse/internal/caisse/usecase"
	"github.com/teranga/caisse/internal/sequence"
)

// CaisseRepository returns the caisse repository instance.
func (c *Container) CaisseRepository() (caisseUsecase.CaisseRepository, error) {
	var err error
	c.caisseRepoInit.Do(func() {
		c.caisseRepo, err = c.initCaisseRepository()
		if err != nil {
			c.initErrors["caisseRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["caisseRepo"]; exists {
		return nil, storedErr
	}
	return c.caisseRepo, nil
}

// CaisseCodeGenerator returns the code generator for caisse codes.
func (c *Container) CaisseCodeGenerator() (*sequence.Generator, error) {
	var err error
	c.caisseCodeGenInit.Do(func() {
		c.caisseCodeGen, err = c.initCodeGenerator("caisse")
		if err != nil {
			c.initErrors["caisseCodeGen"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["caisseCodeGen"]; exists {
		return nil, storedErr
	}
	return c.caisseCodeGen, nil
}

// CaisseUseCase returns the caisse use case instance.
func (c *Container) CaisseUseCase() (caisseUsecase.UseCase, error) {
	var err error
	c.caisseUseCaseInit.Do(func() {
		c.caisseUseCase, err = c.initCaisseUseCase()
		if err != nil {
			c.initErrors["caisseUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["caisseUseCase"]; exists {
		return nil, storedErr
	}
	return c.caisseUseCase, nil
}

// initCaisseRepository creates the caisse repository instance.
func (c *Container) initCaisseRepository() (caisseUsecase.CaisseRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for caisse repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return caisseRepository.NewMySQLCaisseRepository(db), nil
	case "postgres":
		return caisseRepository.NewPostgreSQLCaisseRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// caisseScopeCounter returns the scope counter backed by the caisses table.
func (c *Container) caisseScopeCounter() (sequence.ScopeCounter, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for caisse scope counter: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return caisseRepository.NewMySQLCaisseRepository(db), nil
	case "postgres":
		return caisseRepository.NewPostgreSQLCaisseRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCaisseUseCase creates the caisse use case with all its dependencies.
func (c *Container) initCaisseUseCase() (caisseUsecase.UseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for caisse use case: %w", err)
	}

	caisseRepo, err := c.CaisseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get caisse repository for caisse use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for caisse use case: %w", err)
	}

	codeGenerator, err := c.CaisseCodeGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to get code generator for caisse use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for caisse use case: %w", err)
	}

	useCase := caisseUsecase.NewCaisseUseCase(
		txManager,
		caisseRepo,
		outboxRepo,
		codeGenerator,
		logger,
	)

	return caisseUsecase.NewCaisseUseCaseWithMetrics(useCase, businessMetrics), nil
}
