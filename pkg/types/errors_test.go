package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraintError(t *testing.T) {
	driverErr := errors.New("UNIQUE constraint failed: projects.name")

	tests := []struct {
		name    string
		err     *ConstraintError
		wantMsg string
		matches []error
	}{
		{
			name:    "with reason",
			err:     &ConstraintError{Kind: ConstraintUnique, Table: ProjectsTable, Reason: ErrDuplicateName, Err: driverErr},
			wantMsg: "a project with that name already exists on projects: UNIQUE constraint failed: projects.name",
			matches: []error{ErrConstraint, ErrDuplicateName, driverErr},
		},
		{
			name:    "without reason",
			err:     &ConstraintError{Kind: ConstraintNotNull, Table: CasesTable},
			wantMsg: "not null constraint violation on cases",
			matches: []error{ErrConstraint},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			for _, target := range tt.matches {
				assert.ErrorIs(t, tt.err, target)
			}
			assert.NotErrorIs(t, tt.err, ErrInvalidInput)
		})
	}
}

func TestConstraintKindString(t *testing.T) {
	assert.Equal(t, "unique", ConstraintUnique.String())
	assert.Equal(t, "check", ConstraintCheck.String())
	assert.Equal(t, "foreign key", ConstraintForeignKey.String())
	assert.Equal(t, "other", ConstraintOther.String())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "Title", Message: "must not be blank"}
	assert.Equal(t, "Title: must not be blank", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "bare", (&ValidationError{Message: "bare"}).Error())
}
