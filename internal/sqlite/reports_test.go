package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

// addMappedCase creates a case with a crime scene at lat, lon.
func addMappedCase(t *testing.T, b *Backend, title, date string, lat, lon float64, crimeTypes ...string) int64 {
	t.Helper()
	id := addCase(t, b, title, date, crimeTypes...)
	require.NoError(t, b.Cases().Update(context.Background(), id, types.CasePatch{
		CrimeSceneLat: types.Set(lat),
		CrimeSceneLon: types.Set(lon),
	}))
	return id
}

func TestReports_CasesWithCoordinates(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	older := addMappedCase(t, b, "older", "2015-01-01", 52.2, 21.0, types.CrimeBurglary, types.CrimeTheft)
	newer := addMappedCase(t, b, "newer", "2020-01-01", 50.0, 19.9, types.CrimeHomicide)
	untyped := addMappedCase(t, b, "untyped", "2018-01-01", 51.1, 17.0)
	addCase(t, b, "no scene", "2021-01-01", types.CrimeFraud)

	cases, err := b.Reports().CasesWithCoordinates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, newer, cases[0].ID)
	assert.Equal(t, types.CrimeHomicide, cases[0].PrimaryType)
	assert.Equal(t, types.MarkerColor(types.CrimeHomicide), cases[0].MarkerColor)
	assert.Equal(t, types.StatusIcon(types.StatusActive), cases[0].StatusIcon)

	assert.Equal(t, untyped, cases[1].ID)
	assert.Empty(t, cases[1].PrimaryType)
	assert.Equal(t, types.DefaultMarkerColor, cases[1].MarkerColor)

	assert.Equal(t, older, cases[2].ID)
	assert.Equal(t, types.CrimeBurglary, cases[2].PrimaryType)
	assert.Equal(t, []string{types.CrimeBurglary, types.CrimeTheft}, cases[2].CrimeTypes)
	assert.InDelta(t, 52.2, *cases[2].CrimeSceneLat, 1e-9)
}

func TestReports_PrimaryTypeFollowsReorder(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	id := addMappedCase(t, b, "reordered", "2015-01-01", 52.2, 21.0, types.CrimeBurglary, types.CrimeTheft)
	require.NoError(t, b.Cases().SetCrimeTypes(ctx, id, []string{types.CrimeTheft, types.CrimeBurglary}))

	cases, err := b.Reports().CasesWithCoordinates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, types.CrimeTheft, cases[0].PrimaryType)
}

func TestReports_LinkedPairsWithCoordinates(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	a := addMappedCase(t, b, "a", "2015-01-01", 52.0, 21.0, types.CrimeArson)
	c := addMappedCase(t, b, "c", "2016-01-01", 53.0, 22.0, types.CrimeArson)
	d := addMappedCase(t, b, "d", "2017-01-01", 54.0, 23.0, types.CrimeArson)
	bare := addCase(t, b, "bare", "2018-01-01", types.CrimeArson)

	_, err := b.CaseLinks().Link(ctx, a, c, "same accelerant")
	require.NoError(t, err)
	_, err = b.CaseLinks().Link(ctx, c, d, "same timer")
	require.NoError(t, err)
	_, err = b.CaseLinks().Link(ctx, a, bare, "no coordinates")
	require.NoError(t, err)

	pairs, err := b.Reports().LinkedPairsWithCoordinates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "same accelerant", pairs[0].SimilarityNote)
	assert.Equal(t, a, pairs[0].Case1ID)
	assert.InDelta(t, 53.0, pairs[0].Case2Lat, 1e-9)

	pid, err := b.Projects().Add(ctx, types.NewProject{Name: "arson"})
	require.NoError(t, err)
	require.NoError(t, b.Projects().Assign(ctx, pid, c))
	require.NoError(t, b.Projects().Assign(ctx, pid, d))

	scoped, err := b.Reports().LinkedPairsWithCoordinates(ctx, &pid)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "same timer", scoped[0].SimilarityNote)

	mapped, err := b.Reports().CasesWithCoordinates(ctx, &pid)
	require.NoError(t, err)
	assert.Len(t, mapped, 2)
}

func TestReports_Network(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	empty, err := b.Reports().Network(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Nodes)
	assert.Empty(t, empty.Edges)

	a := addCase(t, b, "A very long case title that gets cut", "2015-01-01", types.CrimeHomicide)
	c := addCase(t, b, "short", "2016-01-01", types.CrimeRobbery, types.CrimeAssault)
	addCase(t, b, "unlinked", "2017-01-01", types.CrimeFraud)

	lid, err := b.CaseLinks().Link(ctx, c, a, "same weapon")
	require.NoError(t, err)

	n, err := b.Reports().Network(ctx, nil)
	require.NoError(t, err)
	require.Len(t, n.Nodes, 2)
	assert.Equal(t, a, n.Nodes[0].CaseID)
	assert.Equal(t, types.NodeLabel(a, "A very long case title that gets cut"), n.Nodes[0].Label)
	assert.Equal(t, []string{types.CrimeRobbery, types.CrimeAssault}, n.Nodes[1].CrimeTypes)

	require.Len(t, n.Edges, 1)
	assert.Equal(t, types.NetworkEdge{LinkID: lid, From: a, To: c, Label: "same weapon"}, n.Edges[0])
}

func TestReports_Summary(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	_, err := b.Cases().Add(ctx, types.NewCase{
		Title: "murder", DateOccurred: types.NewDate(2000, 1, 1), Status: types.StatusColdCase,
		IsMurder: true, VictimCount: ptr(int64(3)), CrimeTypes: []string{types.CrimeHomicide},
	})
	require.NoError(t, err)
	_, err = b.Cases().Add(ctx, types.NewCase{
		Title: "murder, count unknown", DateOccurred: types.NewDate(2001, 1, 1), Status: types.StatusSolved,
		IsMurder: true, CrimeTypes: []string{types.CrimeHomicide},
	})
	require.NoError(t, err)
	theft := addCase(t, b, "theft", "2002-01-01", types.CrimeTheft)

	s, err := b.Reports().Summary(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.MurderCases)
	assert.Equal(t, int64(3), s.Victims)
	assert.Equal(t, map[string]int{types.StatusActive: 1, types.StatusColdCase: 1, types.StatusSolved: 1}, s.ByStatus)

	pid, err := b.Projects().Add(ctx, types.NewProject{Name: "thefts"})
	require.NoError(t, err)
	require.NoError(t, b.Projects().Assign(ctx, pid, theft))

	scoped, err := b.Reports().Summary(ctx, &pid)
	require.NoError(t, err)
	assert.Equal(t, 1, scoped.Total)
	assert.Zero(t, scoped.MurderCases)
	assert.Equal(t, 0, scoped.ByStatus[types.StatusSolved])
}
