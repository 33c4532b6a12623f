package app

import (
	"fmt"

	identityRepository "github.com/teranga/caisse/internal/identity/repository"
	identityUsecase "github.com/teranga/caisse/internal/identity/usecase"
	"github.com/teranga/caisse/internal/sequence"
)

// IdentityRepository returns the identity repository instance.
func (c *Container) IdentityRepository() (identityUsecase.IdentityRepository, error) {
	var err error
	c.identityRepoInit.Do(func() {
		c.identityRepo, err = c.initIdentityRepository()
		if err != nil {
			c.initErrors["identityRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityRepo"]; exists {
		return nil, storedErr
	}
	return c.identityRepo, nil
}

// MemberCodeGenerator returns the code generator for member identity codes.
func (c *Container) MemberCodeGenerator() (*sequence.Generator, error) {
	var err error
	c.memberCodeGenInit.Do(func() {
		c.memberCodeGen, err = c.initCodeGenerator("member")
		if err != nil {
			c.initErrors["memberCodeGen"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["memberCodeGen"]; exists {
		return nil, storedErr
	}
	return c.memberCodeGen, nil
}

// IdentityUseCase returns the identity use case instance.
func (c *Container) IdentityUseCase() (identityUsecase.UseCase, error) {
	var err error
	c.identityUseCaseInit.Do(func() {
		c.identityUseCase, err = c.initIdentityUseCase()
		if err != nil {
			c.initErrors["identityUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityUseCase"]; exists {
		return nil, storedErr
	}
	return c.identityUseCase, nil
}

// initIdentityRepository creates the identity repository instance.
func (c *Container) initIdentityRepository() (identityUsecase.IdentityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for identity repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return identityRepository.NewMySQLIdentityRepository(db), nil
	case "postgres":
		return identityRepository.NewPostgreSQLIdentityRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCodeGenerator creates a code generator for the given entity class. The
// ordinal source is selected by configuration: the counting source derives
// ordinals from committed rows (and relies on the unique code index plus a
// retry on collision), the counter source allocates them atomically from the
// scope_counters table.
func (c *Container) initCodeGenerator(entityClass string) (*sequence.Generator, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for code generator: %w", err)
	}

	if c.config.SequenceOrdinalSource == "counter" {
		switch c.config.DBDriver {
		case "mysql":
			return sequence.NewGenerator(sequence.NewMySQLCounterRepository(db, entityClass)), nil
		case "postgres":
			return sequence.NewGenerator(sequence.NewPostgreSQLCounterRepository(db, entityClass)), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	}

	var counter sequence.ScopeCounter
	switch entityClass {
	case "member":
		counter, err = c.identityScopeCounter()
	case "caisse":
		counter, err = c.caisseScopeCounter()
	default:
		return nil, fmt.Errorf("unknown entity class: %s", entityClass)
	}
	if err != nil {
		return nil, err
	}

	return sequence.NewGenerator(sequence.NewCountingSource(counter)), nil
}

// identityScopeCounter returns the scope counter backed by the identities table.
func (c *Container) identityScopeCounter() (sequence.ScopeCounter, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for identity scope counter: %w", err)
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

// initIdentityUseCase creates the identity use case with all its dependencies.
func (c *Container) initIdentityUseCase() (identityUsecase.UseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for identity use case: %w", err)
	}

	identityRepo, err := c.IdentityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity repository for identity use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for identity use case: %w", err)
	}

	codeGenerator, err := c.MemberCodeGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to get code generator for identity use case: %w", err)
	}

	passwordSvc, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for identity use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for identity use case: %w", err)
	}

	useCase := identityUsecase.NewIdentityUseCase(
		txManager,
		identityRepo,
		outboxRepo,
		codeGenerator,
		passwordSvc,
		logger,
	)

	return identityUsecase.NewIdentityUseCaseWithMetrics(useCase, businessMetrics), nil
}
