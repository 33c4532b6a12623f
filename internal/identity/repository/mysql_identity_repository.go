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

// MySQLIdentityRepository handles identity persistence for MySQL.
// Uses BINARY(16) for UUID storage and a JSON column for the role set.
type MySQLIdentityRepository struct {
	db *sql.DB
}

// NewMySQLIdentityRepository creates a new MySQLIdentityRepository.
func NewMySQLIdentityRepository(db *sql.DB) *MySQLIdentityRepository {
	return &MySQLIdentityRepository{
		db: db,
	}
}

// Create inserts a new identity with version 1.
func (r *MySQLIdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	rolesJSON, err := json.Marshal(identity.Roles)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role set")
	}

	id, err := identity.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal identity id")
	}

	query := `INSERT INTO identities (id, code, name, email, password, principal_role, roles, status,
				  failed_login_count, region, department, commune, version, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, NOW(), NOW())`

	_, err = querier.ExecContext(ctx, query,
		id, identity.Code, identity.Name, identity.Email, identity.Password,
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
func (r *MySQLIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal identity id")
	}

	query := selectColumns + ` FROM identities WHERE id = ?`

	return scanMySQLIdentity(querier.QueryRowContext(ctx, query, idBytes))
}

// GetByEmail retrieves an identity by email.
func (r *MySQLIdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectColumns + ` FROM identities WHERE email = ?`

	return scanMySQLIdentity(querier.QueryRowContext(ctx, query, email))
}

// GetByCode retrieves an identity by its human-readable code.
func (r *MySQLIdentityRepository) GetByCode(ctx context.Context, code string) (*domain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectColumns + ` FROM identities WHERE code = ?`

	return scanMySQLIdentity(querier.QueryRowContext(ctx, query, code))
}

// List retrieves identities ordered by creation time with pagination.
func (r *MySQLIdentityRepository) List(ctx context.Context, offset, limit int) ([]*domain.Identity, error) {
	querier := database.GetTx(ctx, r.db)

	query := selectColumns + ` FROM identities ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list identities")
	}
	defer func() { _ = rows.Close() }()

	var identities []*domain.Identity
	for rows.Next() {
		identity, err := scanMySQLIdentityRow(rows)
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
func (r *MySQLIdentityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	rolesJSON, err := json.Marshal(identity.Roles)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role set")
	}

	id, err := identity.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal identity id")
	}

	query := `UPDATE identities
			  SET name = ?, email = ?, password = ?, principal_role = ?, roles = ?,
				  status = ?, failed_login_count = ?, version = version + 1, updated_at = NOW()
			  WHERE id = ? AND version = ?`

	result, err := querier.ExecContext(ctx, query,
		identity.Name, identity.Email, identity.Password, identity.PrincipalRole, rolesJSON,
		identity.Status, identity.FailedLoginCount,
		id, identity.Version,
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
// the version.
func (r *MySQLIdentityRepository) UpdateLoginState(ctx context.Context, identity *domain.Identity) error {
	querier := database.GetTx(ctx, r.db)

	id, err := identity.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal identity id")
	}

	query := `UPDATE identities
			  SET failed_login_count = ?, status = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query,
		identity.FailedLoginCount, identity.Status, id,
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
func (r *MySQLIdentityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal identity id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, idBytes)
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
func (r *MySQLIdentityRepository) CountInScope(ctx context.Context, scope sequence.Scope) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM identities WHERE region = ? AND department = ? AND commune = ?`

	var count int64
	err := querier.QueryRowContext(ctx, query, scope.Region, scope.Department, scope.Commune).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count identities in scope")
	}

	return count, nil
}

func scanMySQLIdentity(row *sql.Row) (*domain.Identity, error) {
	identity, err := scanMySQLIdentityRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return identity, nil
}

func scanMySQLIdentityRow(row rowScanner) (*domain.Identity, error) {
	var identity domain.Identity
	var idBytes []byte
	var rolesJSON []byte

	err := row.Scan(
		&idBytes, &identity.Code, &identity.Name, &identity.Email, &identity.Password,
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

	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal identity id")
	}
	identity.ID = id

	if err := json.Unmarshal(rolesJSON, &identity.Roles); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role set")
	}

	return &identity, nil
}
