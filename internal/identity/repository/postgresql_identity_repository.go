// Package repository provides data persistence implementations for identity
// entities.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/database"
	"github.com/teranga/caisse/internal/identity/domain"
	"github.com/teranga/caisse/internal/sequence"

	apperrors "github.com/teranga/caisse/internal/errors"
)

// PostgreSQLIdentityRepository handles identity persistence for PostgreSQL.
// The role set is stored as a JSONB column; optimistic locking uses the
// version column.
type PostgreSQLIdentityRepository struct {
	db *sql.DB
}

// NewPostgreSQLIdentityRepository creates a new PostgreSQLIdentityRepository.
func NewPostgreSQLIdentityRepository(db *sql.DB) *PostgreSQLIdentityRepository {
	return &PostgreSQLIdentityRepository{
		db: db,
	}
}

// Create inserts a new identity with version 1.
func (r *PostgreSQLIdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	rolesJSON, err := json.Marshal(identity.Roles)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role set")
	}

	query := `INSERT INTO identities (id, code, name, email, password, principal_role, roles, status,
				  failed_login_count, region, department, commune, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, NOW(), NOW())`

	_, err = querier.ExecContext(ctx, query,
		identity.ID, identity.Code, identity.Name, identity.Email, identity.Password,
		identity.PrincipalRole, rolesJSON, identity.Status,
		identity.FailedLoginCount, identity.Region, identity.Department, identity.Commune,
	)
	if err != nil {
		if uniqueErr := classifyUniqueViolation(err); uniqueErr != nil {
			return uniqueErr
		}
		return apperrors.Wrap(err, "failed to create identity")
	}

	identity.Version = 1
	return nil
}

// GetByID retrieves an identity by ID.
func (r *PostgreSQLIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectColumns + ` FROM identities WHERE id = $1`

	return scanIdentity(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an identity by email.
func (r *PostgreSQLIdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectColumns + ` FROM identities WHERE email = $1`

	return scanIdentity(querier.QueryRowContext(ctx, query, email))
}

// GetByCode retrieves an identity by its human-readable code.
func (r *PostgreSQLIdentityRepository) GetByCode(ctx context.Context, code string) (*domain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectColumns + ` FROM identities WHERE code = $1`

	return scanIdentity(querier.QueryRowContext(ctx, query, code))
}

// List retrieves identities ordered by creation time with pagination.
func (r *PostgreSQLIdentityRepository) List(ctx context.Context, offset, limit int) ([]*domain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectColumns + ` FROM identities ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identities")
	}
	defer func() { _ = rows.Close() }()

	var identities []*domain.Identity
	for rows.Next() {
		identity, err := scanIdentityRow(rows)
		if err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate identities")
	}

	return identities, nil
}

// Update persists the identity if its version still matches the stored row.
// On success the in-memory version is bumped. A stale version returns
// ErrConcurrentModification so the caller can re-read and retry.
func (r *PostgreSQLIdentityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	rolesJSON, err := json.Marshal(identity.Roles)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role set")
	}

	query := `UPDATE identities
			  SET name = $1, email = $2, password = $3, principal_role = $4, roles = $5,
				  status = $6, failed_login_count = $7, version = version + 1, updated_at = NOW()
			  WHERE id = $8 AND version = $9`

	result, err := querier.ExecContext(ctx, query,
		identity.Name, identity.Email, identity.Password, identity.PrincipalRole, rolesJSON,
		identity.Status, identity.FailedLoginCount,
		identity.ID, identity.Version,
	)
	if err != nil {
		if uniqueErr := classifyUniqueViolation(err); uniqueErr != nil {
			return uniqueErr
		}
		return apperrors.Wrap(err, "failed to update identity")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		// Distinguish a lost update from a deleted row.
		if _, err := r.GetByID(ctx, identity.ID); err != nil {
			return err
		}
		return apperrors.Wrap(apperrors.ErrConcurrentModification, "identity was modified concurrently")
	}

	identity.Version++
	return nil
}

// UpdateLoginState persists the failure counter and status without touching
// the version. Login bookkeeping must never trigger optimistic lock
// conflicts with concurrent profile updates.
func (r *PostgreSQLIdentityRepository) UpdateLoginState(ctx context.Context, identity *domain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE identities
			  SET failed_login_count = $1, status = $2, updated_at = NOW()
			  WHERE id = $3`

	result, err := querier.ExecContext(ctx, query,
		identity.FailedLoginCount, identity.Status, identity.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update login state")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

// Delete removes an identity.
func (r *PostgreSQLIdentityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete identity")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

// CountInScope counts identities registered in the exact geographic scope.
// Feeds the counting ordinal source for member code generation.
func (r *PostgreSQLIdentityRepository) CountInScope(ctx context.Context, scope sequence.Scope) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM identities WHERE region = $1 AND department = $2 AND commune = $3`

	var count int64
	err := querier.QueryRowContext(ctx, query, scope.Region, scope.Department, scope.Commune).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count identities in scope")
	}

	return count, nil
}

const selectColumns = `SELECT id, code, name, email, password, principal_role, roles, status,
		failed_login_count, region, department, commune, version, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row *sql.Row) (*domain.Identity, error) {
	identity, err := scanIdentityRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return identity, nil
}

func scanIdentityRow(row rowScanner) (*domain.Identity, error) {
	var identity domain.Identity
	var rolesJSON []byte

	err := row.Scan(
		&identity.ID, &identity.Code, &identity.Name, &identity.Email, &identity.Password,
		&identity.PrincipalRole, &rolesJSON, &identity.Status,
		&identity.FailedLoginCount, &identity.Region, &identity.Department, &identity.Commune,
		&identity.Version, &identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan identity")
	}

	if err := json.Unmarshal(rolesJSON, &identity.Roles); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role set")
	}

	return &identity, nil
}
