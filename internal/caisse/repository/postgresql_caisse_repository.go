// Package repository provides data persistence implementations for caisses.
package repository

import (
	"context"
	"database/sql"
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/teranga/caisse/internal/caisse/domain"
	"github.com/teranga/caisse/internal/database"
	"github.com/teranga/caisse/internal/sequence"

	apperrors "github.com/teranga/caisse/internal/errors"
)

// PostgreSQLCaisseRepository handles caisse persistence for PostgreSQL.
type PostgreSQLCaisseRepository struct {
	db *sql.DB
}

// NewPostgreSQLCaisseRepository creates a new PostgreSQLCaisseRepository.
func NewPostgreSQLCaisseRepository(db *sql.DB) *PostgreSQLCaisseRepository {
	return &PostgreSQLCaisseRepository{
		db: db,
	}
}

// Create inserts a new caisse.
func (r *PostgreSQLCaisseRepository) Create(ctx context.Context, caisse *domain.Caisse) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO caisses (id, code, name, region, department, commune, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, caisse.ID, caisse.Code, caisse.Name,
		caisse.Region, caisse.Department, caisse.Commune)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return apperrors.Wrap(err, "failed to create caisse")
	}

	return nil
}

// GetByID retrieves a caisse by ID.
func (r *PostgreSQLCaisseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Caisse, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, code, name, region, department, commune, created_at, updated_at
			  FROM caisses WHERE id = $1`

	var caisse domain.Caisse
	err := querier.QueryRowContext(ctx, query, id).Scan(&caisse.ID, &caisse.Code, &caisse.Name,
		&caisse.Region, &caisse.Department, &caisse.Commune, &caisse.CreatedAt, &caisse.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrCaisseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get caisse by id")
	}

	return &caisse, nil
}

// List retrieves caisses ordered by creation time, newest first.
func (r *PostgreSQLCaisseRepository) List(ctx context.Context, offset, limit int) ([]*domain.Caisse, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, code, name, region, department, commune, created_at, updated_at
			  FROM caisses
			  ORDER BY created_at DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list caisses")
	}
	defer rows.Close() //nolint:errcheck

	var caisses []*domain.Caisse
	for rows.Next() {
		var caisse domain.Caisse
		err := rows.Scan(&caisse.ID, &caisse.Code, &caisse.Name,
			&caisse.Region, &caisse.Department, &caisse.Commune, &caisse.CreatedAt, &caisse.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan caisse")
		}
		caisses = append(caisses, &caisse)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate caisses")
	}

	return caisses, nil
}

// CountInScope counts caisses registered in the exact geographic scope.
// Feeds the counting ordinal source for caisse code generation.
func (r *PostgreSQLCaisseRepository) CountInScope(ctx context.Context, scope sequence.Scope) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM caisses WHERE region = $1 AND department = $2 AND commune = $3`

	var count int64
	err := querier.QueryRowContext(ctx, query, scope.Region, scope.Department, scope.Commune).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count caisses in scope")
	}

	return count, nil
}

// isUniqueViolation reports whether the error is a driver unique constraint
// violation. The only unique index on caisses is the code column.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}

	return false
}
