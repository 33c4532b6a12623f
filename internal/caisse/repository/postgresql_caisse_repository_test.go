package repository

import (
	"context"
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranga/caisse/internal/caisse/domain"
	"github.com/teranga/caisse/internal/sequence"
	"github.com/teranga/caisse/internal/testutil"

	apperrors "github.com/teranga/caisse/internal/errors"
)

func newCaisse(code string) *domain.Caisse {
	return &domain.Caisse{
		ID:         uuid.Must(uuid.NewV7()),
		Code:       code,
		Name:       "Caisse de Plateau",
		Region:     "DAKAR",
		Department: "DAKAR",
		Commune:    "Plateau",
	}
}

func TestPostgreSQLCaisseRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCaisseRepository(db)
	ctx := context.Background()

	caisse := newCaisse("CLS-1-101-PLA-001")
	require.NoError(t, repo.Create(ctx, caisse))

	t.Run("GetByID", func(t *testing.T) {
		found, err := repo.GetByID(ctx, caisse.ID)
		require.NoError(t, err)
		assert.Equal(t, caisse.Code, found.Code)
		assert.Equal(t, caisse.Name, found.Name)
		assert.Equal(t, "DAKAR", found.Region)
		assert.False(t, found.CreatedAt.IsZero())
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.True(t, apperrors.Is(err, domain.ErrCaisseNotFound))
	})

	t.Run("DuplicateCode", func(t *testing.T) {
		err := repo.Create(ctx, newCaisse("CLS-1-101-PLA-001"))
		assert.True(t, apperrors.Is(err, domain.ErrDuplicateCode))
		assert.Equal(t, "duplicate_code", apperrors.KindOf(err))
	})
}

func TestPostgreSQLCaisseRepository_List(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCaisseRepository(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Create(ctx, newCaisse(fmt.Sprintf("CLS-1-101-PLA-%03d", i))))
	}

	t.Run("All", func(t *testing.T) {
		caisses, err := repo.List(ctx, 0, 50)
		require.NoError(t, err)
		assert.Len(t, caisses, 3)
	})

	t.Run("Paginated", func(t *testing.T) {
		caisses, err := repo.List(ctx, 1, 1)
		require.NoError(t, err)
		assert.Len(t, caisses, 1)
	})
}

func TestPostgreSQLCaisseRepository_CountInScope(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCaisseRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newCaisse("CLS-1-101-PLA-001")))

	other := newCaisse("CLS-1-101-MED-001")
	other.Commune = "Medina"
	require.NoError(t, repo.Create(ctx, other))

	count, err := repo.CountInScope(ctx, sequence.Scope{Region: "DAKAR", Department: "DAKAR", Commune: "Plateau"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountInScope(ctx, sequence.Scope{Region: "DAKAR", Department: "DAKAR", Commune: "Ngor"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMySQLCaisseRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLCaisseRepository(db)
	ctx := context.Background()

	caisse := newCaisse("CLS-1-101-PLA-001")
	require.NoError(t, repo.Create(ctx, caisse))

	found, err := repo.GetByID(ctx, caisse.ID)
	require.NoError(t, err)
	assert.Equal(t, caisse.ID, found.ID)
	assert.Equal(t, caisse.Code, found.Code)

	t.Run("DuplicateCode", func(t *testing.T) {
		err := repo.Create(ctx, newCaisse("CLS-1-101-PLA-001"))
		assert.True(t, apperrors.Is(err, domain.ErrDuplicateCode))
	})

	t.Run("List", func(t *testing.T) {
		caisses, err := repo.List(ctx, 0, 50)
		require.NoError(t, err)
		assert.Len(t, caisses, 1)
	})

	t.Run("CountInScope", func(t *testing.T) {
		count, err := repo.CountInScope(ctx, sequence.Scope{Region: "DAKAR", Department: "DAKAR", Commune: "Plateau"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("PostgresUniqueViolation", func(t *testing.T) {
		assert.True(t, isUniqueViolation(&pq.Error{Code: "23505", Constraint: "idx_caisses_code"}))
	})

	t.Run("PostgresOtherCode", func(t *testing.T) {
		assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	})

	t.Run("MySQLDuplicateEntry", func(t *testing.T) {
		err := &gomysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'CLS-1-101-PLA-001' for key 'caisses.idx_caisses_code'",
		}
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("MySQLOtherNumber", func(t *testing.T) {
		assert.False(t, isUniqueViolation(&gomysql.MySQLError{Number: 1452}))
	})

	t.Run("UntypedErrorTextIgnored", func(t *testing.T) {
		assert.False(t, isUniqueViolation(fmt.Errorf("duplicate key value violates unique constraint")))
	})
}
