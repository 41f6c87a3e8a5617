package types

import (
	"errors"
	"fmt"
	"strings"
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Operation errors. Constraint failures are reported as *ConstraintError,
// which matches ErrConstraint and, where the operation gives the failure a
// domain meaning, one of the more specific sentinels below.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrConstraint       = errors.New("constraint violation")
	ErrDuplicate        = errors.New("duplicate row")
	ErrAlreadyLinked    = errors.New("already linked")
	ErrSelfLink         = errors.New("a case cannot be linked to itself")
	ErrDuplicateName    = errors.New("a project with that name already exists")
	ErrMissingReference = errors.New("referenced row does not exist")
)

// ConstraintKind classifies the store constraint that rejected a write.
type ConstraintKind int

const (
	ConstraintOther ConstraintKind = iota
	ConstraintUnique
	ConstraintCheck
	ConstraintForeignKey
	ConstraintNotNull
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintUnique:
		return "unique"
	case ConstraintCheck:
		return "check"
	case ConstraintForeignKey:
		return "foreign key"
	case ConstraintNotNull:
		return "not null"
	default:
		return "other"
	}
}

// ConstraintError reports a write rejected by a uniqueness, check, foreign
// key, or not-null constraint. Reason, when set, is the domain sentinel the
// operation maps the failure to (for example ErrAlreadyLinked).
type ConstraintError struct {
	Kind   ConstraintKind
	Table  string
	Reason error
	Err    error
}

func (e *ConstraintError) Error() string {
	var b strings.Builder
	if e.Reason != nil {
		b.WriteString(e.Reason.Error())
	} else {
		fmt.Fprintf(&b, "%s constraint violation", e.Kind)
	}
	if e.Table != "" {
		fmt.Fprintf(&b, " on %s", e.Table)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes ErrConstraint, the domain reason, and the driver error to
// errors.Is and errors.As.
func (e *ConstraintError) Unwrap() []error {
	errs := []error{ErrConstraint}
	if e.Reason != nil {
		errs = append(errs, e.Reason)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ValidationError describes one rejected input field. It matches
// ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// invalid builds a ValidationError.
func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
