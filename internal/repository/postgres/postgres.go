// Package postgres implements the catalog and order repositories on
// PostgreSQL via pgx.
package postgres

import "strings"

// isUniqueViolation checks if the error is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
