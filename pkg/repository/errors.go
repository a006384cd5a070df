package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes recognised by MapError.
const (
	codeUniqueViolation  = "23505"
	codeCheckViolation   = "23514"
	codeNotNullViolation = "23502"
)

// Errors names the domain error each database condition translates to.
// A nil field leaves the matching condition untranslated.
type Errors struct {
	NotFound   error
	Duplicate  error
	Constraint error
}

// Map translates err using e. Check and not-null violations both map to
// Constraint.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		if e.NotFound != nil {
			return e.NotFound
		}
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		if e.Duplicate != nil {
			return e.Duplicate
		}
	case codeCheckViolation, codeNotNullViolation:
		if e.Constraint != nil {
			return fmt.Errorf("%w: %s", e.Constraint, pgErr.ConstraintName)
		}
	}
	return err
}

// MapError is shorthand for Errors{NotFound: notFound, Duplicate: duplicate}.Map(err).
func MapError(err error, notFound, duplicate error) error {
	return Errors{NotFound: notFound, Duplicate: duplicate}.Map(err)
}
