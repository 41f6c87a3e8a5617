package sqlite

import (
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

// reasons maps constraint kinds to the domain sentinel an operation reports
// for them.
type reasons map[types.ConstraintKind]error

// classify wraps constraint failures in *types.ConstraintError. Other errors
// are returned unchanged.
func classify(err error, table string, r reasons) error {
	if err == nil {
		return nil
	}
	kind, ok := constraintKind(err)
	if !ok {
		return err
	}
	reason := r[kind]
	if reason == nil && kind == types.ConstraintForeignKey {
		reason = types.ErrMissingReference
	}
	if reason == nil && kind == types.ConstraintUnique {
		reason = types.ErrDuplicate
	}
	return &types.ConstraintError{Kind: kind, Table: table, Reason: reason, Err: err}
}

// constraintKind reads the extended result code from a driver error, falling
// back to the message text for errors that lost it along the way.
func constraintKind(err error) (types.ConstraintKind, bool) {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return types.ConstraintUnique, true
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return types.ConstraintCheck, true
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return types.ConstraintForeignKey, true
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return types.ConstraintNotNull, true
		}
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return types.ConstraintOther, true
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return types.ConstraintUnique, true
	case strings.Contains(msg, "CHECK constraint failed"):
		return types.ConstraintCheck, true
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return types.ConstraintForeignKey, true
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return types.ConstraintNotNull, true
	}
	return types.ConstraintOther, false
}
