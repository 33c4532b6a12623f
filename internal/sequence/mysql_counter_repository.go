package sequence

import (
	"context"
	"database/sql"

	"github.com/teranga/caisse/internal/database"

	apperrors "github.com/teranga/caisse/internal/errors"
)

// MySQLCounterRepository allocates ordinals from a per-scope counter row for
// MySQL. The upsert and the read run as two statements, so callers must run
// NextOrdinal inside a transaction (via TxManager) to get atomic allocation.
type MySQLCounterRepository struct {
	db          *sql.DB
	entityClass string
}

// NewMySQLCounterRepository creates a new MySQLCounterRepository.
func NewMySQLCounterRepository(db *sql.DB, entityClass string) *MySQLCounterRepository {
	return &MySQLCounterRepository{
		db:          db,
		entityClass: entityClass,
	}
}

// NextOrdinal increments the counter for the scope and returns the new value.
func (r *MySQLCounterRepository) NextOrdinal(ctx context.Context, scope Scope) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	// LAST_INSERT_ID(expr) makes the incremented value readable on this
	// connection without a second lookup by key.
	query := `INSERT INTO scope_counters (entity_class, region, department, commune, value)
			  VALUES (?, ?, ?, ?, LAST_INSERT_ID(1))
			  ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1)`

	_, err := querier.ExecContext(ctx, query, r.entityClass, scope.Region, scope.Department, scope.Commune)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to increment scope counter")
	}

	var value int64
	if err := querier.QueryRowContext(ctx, `SELECT LAST_INSERT_ID()`).Scan(&value); err != nil {
		return 0, apperrors.Wrap(err, "failed to read scope counter value")
	}

	return value, nil
}
