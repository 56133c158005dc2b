package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reports whether err is a unique-constraint failure.
// Postgres errors are matched by SQLSTATE; the string fallback covers the
// sqlite driver used in tests, which has no typed error for this.
func IsUniqueViolation(err error, constraints ...string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return matchesConstraint(pgErr.ConstraintName, constraints)
	}

	msg := err.Error()
	if len(constraints) > 0 {
		return matchesConstraint(msg, constraints)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

func matchesConstraint(subject string, constraints []string) bool {
	if len(constraints) == 0 {
		return true
	}
	for _, name := range constraints {
		if strings.Contains(subject, name) {
			return true
		}
	}
	return false
}
