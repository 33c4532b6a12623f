package repository

import (
	"errors"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/teranga/caisse/internal/identity/domain"
)

// Driver-level unique violation identifiers.
const (
	pqUniqueViolation   = pq.ErrorCode("23505")
	mysqlDuplicateEntry = 1062
)

// classifyUniqueViolation maps a driver unique constraint violation to the
// matching domain error by inspecting the violated index. Returns nil when
// the error is not a unique violation.
func classifyUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		if strings.Contains(pqErr.Constraint, "code") {
			return domain.ErrDuplicateCode
		}
		return domain.ErrEmailAlreadyExists
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		// MySQL names the violated key only in the message, e.g.
		// "Duplicate entry 'x' for key 'identities.idx_identities_code'".
		if strings.Contains(mysqlErr.Message, "idx_identities_code") {
			return domain.ErrDuplicateCode
		}
		return domain.ErrEmailAlreadyExists
	}

	return nil
}
