package sqlite

import (
	"errors"
	"runtime/debug"

	"github.com/mattn/go-sqlite3"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/domain"
)

// translate converts constraint failures reported by SQLite into
// domain.ConstraintError. Other errors pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return &domain.ConstraintError{Err: se, Stack: debug.Stack()}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
