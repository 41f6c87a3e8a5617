package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func TestSuspectLinks_Link(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	links := b.SuspectLinks()

	sid := addSuspect(t, b, "Piotr")
	cid := addCase(t, b, "Dock theft", "2020-02-02", types.CrimeTheft)

	link := types.NewSuspectLink{SuspectID: sid, CaseID: cid, ConnectionType: "CCTV / Video Evidence", Notes: ptr("Camera 4")}
	id, err := links.Link(ctx, link)
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = links.Link(ctx, link)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrAlreadyLinked)
	assert.ErrorIs(t, err, types.ErrConstraint)
	var ce *types.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, types.ConstraintUnique, ce.Kind)
	assert.Equal(t, types.SuspectCaseLinksTable, ce.Table)

	// A different connection type is a separate link.
	link.ConnectionType = "Eyewitness Identification"
	_, err = links.Link(ctx, link)
	assert.NoError(t, err)
}

func TestSuspectLinks_ForCaseAndSuspect(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	links := b.SuspectLinks()

	anna := addSuspect(t, b, "Anna")
	bob := addSuspect(t, b, "Bob")
	c1 := addCase(t, b, "Harbor arson", "2021-04-04", types.CrimeArson, types.CrimeVandalism)
	c2 := addCase(t, b, "Harbor fraud", "2021-05-05", types.CrimeFraud)

	first, err := links.Link(ctx, types.NewSuspectLink{SuspectID: anna, CaseID: c1, ConnectionType: "DNA Evidence"})
	require.NoError(t, err)
	second, err := links.Link(ctx, types.NewSuspectLink{SuspectID: bob, CaseID: c1, ConnectionType: "Informant Tip"})
	require.NoError(t, err)
	third, err := links.Link(ctx, types.NewSuspectLink{SuspectID: anna, CaseID: c2, ConnectionType: "Financial Records"})
	require.NoError(t, err)

	forCase, err := links.ForCase(ctx, c1)
	require.NoError(t, err)
	require.Len(t, forCase, 2)
	assert.Equal(t, second, forCase[0].ID)
	assert.Equal(t, "Bob", forCase[0].SuspectName)
	assert.Equal(t, first, forCase[1].ID)
	assert.Equal(t, "Anna", forCase[1].SuspectName)

	forSuspect, err := links.ForSuspect(ctx, anna)
	require.NoError(t, err)
	require.Len(t, forSuspect, 2)
	assert.Equal(t, third, forSuspect[0].ID)
	assert.Equal(t, "Harbor fraud", forSuspect[0].CaseTitle)
	assert.Equal(t, types.CrimeFraud, forSuspect[0].CrimeTypes)
	assert.Equal(t, "Harbor arson", forSuspect[1].CaseTitle)
	assert.Equal(t, "Arson, Vandalism", forSuspect[1].CrimeTypes)
	assert.Equal(t, types.StatusActive, forSuspect[1].CaseStatus)
	require.NotNil(t, forSuspect[1].CaseDateOccurred)
	assert.Equal(t, "2021-04-04", forSuspect[1].CaseDateOccurred.String())

	require.NoError(t, links.Delete(ctx, first))
	forCase, err = links.ForCase(ctx, c1)
	require.NoError(t, err)
	assert.Len(t, forCase, 1)
}

func TestCaseLinks_CanonicalPair(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	lo := addCase(t, b, "first", "2001-01-01", types.CrimeHomicide)
	hi := addCase(t, b, "second", "2002-02-02", types.CrimeHomicide)

	id, err := b.CaseLinks().Link(ctx, hi, lo, "same knot")
	require.NoError(t, err)

	links, err := b.CaseLinks().ForCase(ctx, hi)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, id, links[0].ID)
	assert.Equal(t, lo, links[0].CaseID1)
	assert.Equal(t, hi, links[0].CaseID2)
	assert.Equal(t, "first", links[0].Case1Title)
	assert.Equal(t, "second", links[0].Case2Title)
	assert.Equal(t, lo, links[0].Other(hi))

	for _, pair := range [][2]int64{{lo, hi}, {hi, lo}} {
		_, err := b.CaseLinks().Link(ctx, pair[0], pair[1], "again")
		assert.ErrorIs(t, err, types.ErrAlreadyLinked)
		assert.ErrorIs(t, err, types.ErrConstraint)
	}
}

func TestCaseLinks_SelfLink(t *testing.T) {
	b := setupBackend(t)
	id := addCase(t, b, "alone", "2001-01-01", types.CrimeHomicide)

	_, err := b.CaseLinks().Link(context.Background(), id, id, "mirror")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSelfLink)
	var ce *types.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, types.ConstraintCheck, ce.Kind)
}

func TestCaseLinks_AllProjectScope(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	a := addCase(t, b, "a", "2001-01-01", types.CrimeTheft)
	c := addCase(t, b, "c", "2001-01-02", types.CrimeTheft)
	d := addCase(t, b, "d", "2001-01-03", types.CrimeTheft)
	pid, err := b.Projects().Add(ctx, types.NewProject{Name: "scope"})
	require.NoError(t, err)
	require.NoError(t, b.Projects().Assign(ctx, pid, a))
	require.NoError(t, b.Projects().Assign(ctx, pid, c))

	inside, err := b.CaseLinks().Link(ctx, a, c, "both in project")
	require.NoError(t, err)
	_, err = b.CaseLinks().Link(ctx, a, d, "one outside")
	require.NoError(t, err)

	scoped, err := b.CaseLinks().All(ctx, &pid)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, inside, scoped[0].ID)

	all, err := b.CaseLinks().All(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, b.CaseLinks().Delete(ctx, inside))
	scoped, err = b.CaseLinks().All(ctx, &pid)
	require.NoError(t, err)
	assert.Empty(t, scoped)
}
