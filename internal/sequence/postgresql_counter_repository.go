package sequence

import (
	"context"
	"database/sql"

	"github.com/teranga/caisse/internal/database"

	apperrors "github.com/teranga/caisse/internal/errors"
)

// PostgreSQLCounterRepository allocates ordinals from a per-scope counter row
// for PostgreSQL. Unlike CountingSource, the allocation is atomic: the upsert
// increments and reads the counter in a single statement, so concurrent calls
// on the same scope never observe the same ordinal.
type PostgreSQLCounterRepository struct {
	db          *sql.DB
	entityClass string
}

// NewPostgreSQLCounterRepository creates a new PostgreSQLCounterRepository.
// Counters are partitioned per entity class so member and caisse sequences
// advance independently within the same scope.
func NewPostgreSQLCounterRepository(db *sql.DB, entityClass string) *PostgreSQLCounterRepository {
	return &PostgreSQLCounterRepository{
		db:          db,
		entityClass: entityClass,
	}
}

// NextOrdinal increments the counter for the scope and returns the new value.
func (r *PostgreSQLCounterRepository) NextOrdinal(ctx context.Context, scope Scope) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO scope_counters (entity_class, region, department, commune, value)
			  VALUES ($1, $2, $3, $4, 1)
			  ON CONFLICT (entity_class, region, department, commune)
			  DO UPDATE SET value = scope_counters.value + 1
			  RETURNING value`

	var value int64
	err := querier.QueryRowContext(ctx, query, r.entityClass, scope.Region, scope.Department, scope.Commune).Scan(&value)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to increment scope counter")
	}

	return value, nil
}
