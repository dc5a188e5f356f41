package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation = "23505"
	pgCodeUndefinedTable  = "42P01"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolationError reports an insert that hit an existing key.
func IsUniqueViolationError(err error) bool {
	return pgErrorCode(err) == pgCodeUniqueViolation
}

// IsUndefinedTableError reports a query against a table the schema has not created yet.
func IsUndefinedTableError(err error) bool {
	return pgErrorCode(err) == pgCodeUndefinedTable
}
