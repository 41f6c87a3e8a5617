package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func TestNewBackend_EndToEnd(t *testing.T) {
	store := NewBackend()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer store.Detach()

	ctx := context.Background()
	first, err := store.Cases().Add(ctx, types.NewCase{
		Title:        "Canal Street robbery",
		DateOccurred: types.NewDate(2023, 4, 1),
		Status:       types.StatusActive,
		CrimeTypes:   []string{types.CrimeRobbery},
	})
	require.NoError(t, err)
	second, err := store.Cases().Add(ctx, types.NewCase{
		Title:        "Canal Street assault",
		DateOccurred: types.NewDate(2023, 4, 8),
		Status:       types.StatusActive,
		CrimeTypes:   []string{types.CrimeAssault, types.CrimeRobbery},
	})
	require.NoError(t, err)

	suspect, err := store.Suspects().Add(ctx, types.NewSuspect{Name: "T. Kowal"})
	require.NoError(t, err)
	_, err = store.SuspectLinks().Link(ctx, types.NewSuspectLink{SuspectID: suspect, CaseID: first, ConnectionType: "Eyewitness Identification"})
	require.NoError(t, err)
	_, err = store.CaseLinks().Link(ctx, second, first, "same knife, same street")
	require.NoError(t, err)

	project, err := store.Projects().Add(ctx, types.NewProject{Name: "Canal Street"})
	require.NoError(t, err)
	require.NoError(t, store.Projects().Assign(ctx, project, first))
	require.NoError(t, store.Projects().Assign(ctx, project, second))

	cases, err := store.Cases().List(ctx, &project)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, second, cases[0].ID)

	links, err := store.SuspectLinks().ForSuspect(ctx, suspect)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Canal Street robbery", links[0].CaseTitle)

	network, err := store.Reports().Network(ctx, &project)
	require.NoError(t, err)
	assert.Len(t, network.Nodes, 2)
	assert.Len(t, network.Edges, 1)

	require.NoError(t, store.Cases().Delete(ctx, first))
	network, err = store.Reports().Network(ctx, &project)
	require.NoError(t, err)
	assert.Empty(t, network.Edges)
}
