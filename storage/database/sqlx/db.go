// Package sqlxrepos implements the domain repositories on PostgreSQL.
package sqlxrepos

import (
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint violation
// on the named constraint (any constraint when name is empty).
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
