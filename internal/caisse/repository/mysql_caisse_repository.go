package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/caisse/domain"
	"github.com/teranga/caisse/internal/database"
	"github.com/teranga/caisse/internal/sequence"

	apperrors "github.com/teranga/caisse/internal/errors"
)

// MySQLCaisseRepository handles caisse persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLCaisseRepository struct {
	db *sql.DB
}

// NewMySQLCaisseRepository creates a new MySQLCaisseRepository.
func NewMySQLCaisseRepository(db *sql.DB) *MySQLCaisseRepository {
	return &MySQLCaisseRepository{
		db: db,
	}
}

// Create inserts a new caisse.
func (r *MySQLCaisseRepository) Create(ctx context.Context, caisse *domain.Caisse) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO caisses (id, code, name, region, department, commune, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`

	idBytes, err := caisse.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal caisse id")
	}

	_, err = querier.ExecContext(ctx, query, idBytes, caisse.Code, caisse.Name,
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
func (r *MySQLCaisseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Caisse, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, code, name, region, department, commune, created_at, updated_at
			  FROM caisses WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal caisse id")
	}

	var caisse domain.Caisse
	var rowID []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(&rowID, &caisse.Code, &caisse.Name,
		&caisse.Region, &caisse.Department, &caisse.Commune, &caisse.CreatedAt, &caisse.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrCaisseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get caisse by id")
	}

	caisse.ID, err = uuid.FromBytes(rowID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal caisse id")
	}

	return &caisse, nil
}

// List retrieves caisses ordered by creation time, newest first.
func (r *MySQLCaisseRepository) List(ctx context.Context, offset, limit int) ([]*domain.Caisse, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, code, name, region, department, commune, created_at, updated_at
			  FROM caisses
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list caisses")
	}
	defer rows.Close() //nolint:errcheck

	var caisses []*domain.Caisse
	for rows.Next() {
		var caisse domain.Caisse
		var rowID []byte
		err := rows.Scan(&rowID, &caisse.Code, &caisse.Name,
			&caisse.Region, &caisse.Department, &caisse.Commune, &caisse.CreatedAt, &caisse.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan caisse")
		}

		caisse.ID, err = uuid.FromBytes(rowID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal caisse id")
		}

		caisses = append(caisses, &caisse)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate caisses")
	}

	return caisses, nil
}

// CountInScope counts caisses registered in the exact geographic scope.
func (r *MySQLCaisseRepository) CountInScope(ctx context.Context, scope sequence.Scope) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM caisses WHERE region = ? AND department = ? AND commune = ?`

	var count int64
	err := querier.QueryRowContext(ctx, query, scope.Region, scope.Department, scope.Commune).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count caisses in scope")
	}

	return count, nil
}
