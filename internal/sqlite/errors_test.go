package sqlite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		reasons    reasons
		wantKind   types.ConstraintKind
		wantReason error
	}{
		{
			name:       "unique defaults to duplicate",
			err:        errors.New("constraint failed: UNIQUE constraint failed: projects.name (2067)"),
			wantKind:   types.ConstraintUnique,
			wantReason: types.ErrDuplicate,
		},
		{
			name:       "unique with operation reason",
			err:        errors.New("UNIQUE constraint failed: case_links.case_id_1, case_links.case_id_2"),
			reasons:    caseLinkReasons,
			wantKind:   types.ConstraintUnique,
			wantReason: types.ErrAlreadyLinked,
		},
		{
			name:       "check with operation reason",
			err:        errors.New("CHECK constraint failed: case_id_1 < case_id_2"),
			reasons:    caseLinkReasons,
			wantKind:   types.ConstraintCheck,
			wantReason: types.ErrSelfLink,
		},
		{
			name:       "foreign key defaults to missing reference",
			err:        errors.New("FOREIGN KEY constraint failed"),
			wantKind:   types.ConstraintForeignKey,
			wantReason: types.ErrMissingReference,
		},
		{
			name:     "not null has no default reason",
			err:      errors.New("NOT NULL constraint failed: cases.title"),
			wantKind: types.ConstraintNotNull,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(fmt.Errorf("exec: %w", tt.err), "some_table", tt.reasons)

			var ce *types.ConstraintError
			require.True(t, errors.As(got, &ce))
			assert.Equal(t, tt.wantKind, ce.Kind)
			assert.Equal(t, "some_table", ce.Table)
			assert.ErrorIs(t, got, types.ErrConstraint)
			assert.ErrorIs(t, got, tt.err)
			if tt.wantReason != nil {
				assert.ErrorIs(t, got, tt.wantReason)
			} else {
				assert.Nil(t, ce.Reason)
			}
		})
	}
}

func TestClassify_PassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("disk I/O error")
	assert.Same(t, plain, classify(plain, "cases", nil))
	assert.NoError(t, classify(nil, "cases", nil))
}
