package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func TestProjectsTable_CRUD(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	projects := b.Projects()

	id, err := projects.Add(ctx, types.NewProject{Name: "Coastal burglaries", Description: ptr("2019-2021")})
	require.NoError(t, err)

	p, err := projects.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Coastal burglaries", p.Name)
	assert.Equal(t, "2019-2021", *p.Description)

	require.NoError(t, projects.Update(ctx, id, types.ProjectPatch{Description: types.Clear[string]()}))
	p, err = projects.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p.Description)

	require.NoError(t, projects.Delete(ctx, id))
	p, err = projects.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProjectsTable_DuplicateName(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	projects := b.Projects()

	first, err := projects.Add(ctx, types.NewProject{Name: "Alpha"})
	require.NoError(t, err)
	_, err = projects.Add(ctx, types.NewProject{Name: "Alpha"})
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	second, err := projects.Add(ctx, types.NewProject{Name: "Beta"})
	require.NoError(t, err)
	err = projects.Update(ctx, second, types.ProjectPatch{Name: ptr("Alpha")})
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	list, err := projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, "Beta", list[1].Name)
}

func TestProjectsTable_Membership(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	projects := b.Projects()

	pid, err := projects.Add(ctx, types.NewProject{Name: "Members"})
	require.NoError(t, err)
	empty, err := projects.Add(ctx, types.NewProject{Name: "Empty"})
	require.NoError(t, err)
	c1 := addCase(t, b, "one", "2010-01-01", types.CrimeTheft)
	c2 := addCase(t, b, "two", "2011-01-01", types.CrimeTheft)

	require.NoError(t, projects.Assign(ctx, pid, c1))
	require.NoError(t, projects.Assign(ctx, pid, c2))

	var addedAt string
	require.NoError(t, b.db.Get(&addedAt, "SELECT added_at FROM project_cases WHERE project_id = ? AND case_id = ?", pid, c1))

	// Assigning twice leaves one membership with its original timestamp.
	require.NoError(t, projects.Assign(ctx, pid, c1))
	assert.Equal(t, 1, countRows(t, b, types.ProjectCasesTable, "project_id = ? AND case_id = ?", pid, c1))
	var again string
	require.NoError(t, b.db.Get(&again, "SELECT added_at FROM project_cases WHERE project_id = ? AND case_id = ?", pid, c1))
	assert.Equal(t, addedAt, again)

	cases, err := projects.Cases(ctx, pid)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, c2, cases[0].ID, "members are listed newest first")

	ids, err := projects.ProjectIDs(ctx, c1)
	require.NoError(t, err)
	assert.Equal(t, []int64{pid}, ids)

	counts, err := projects.CaseCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{pid: 2, empty: 0}, counts)

	require.NoError(t, projects.Unassign(ctx, pid, c1))
	ids, err = projects.ProjectIDs(ctx, c1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestProjectsTable_DeleteKeepsCases(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	pid, err := b.Projects().Add(ctx, types.NewProject{Name: "Temporary"})
	require.NoError(t, err)
	cid := addCase(t, b, "survivor", "2012-12-12", types.CrimeArson)
	require.NoError(t, b.Projects().Assign(ctx, pid, cid))

	require.NoError(t, b.Projects().Delete(ctx, pid))

	assert.Zero(t, countRows(t, b, types.ProjectCasesTable, "project_id = ?", pid))
	c, err := b.Cases().Get(ctx, cid)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestProjectsTable_AssignMissingCase(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	pid, err := b.Projects().Add(ctx, types.NewProject{Name: "Dangling"})
	require.NoError(t, err)

	err = b.Projects().Assign(ctx, pid, 5150)
	assert.ErrorIs(t, err, types.ErrMissingReference)
}
