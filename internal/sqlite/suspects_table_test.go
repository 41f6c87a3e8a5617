package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func TestSuspectsTable_CRUD(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	suspects := b.Suspects()

	id, err := suspects.Add(ctx, types.NewSuspect{
		Name:         "Marek Nowak",
		Description:  ptr("Tall, scar on left hand"),
		KnownAliases: ptr("The Locksmith"),
	})
	require.NoError(t, err)

	s, err := suspects.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Marek Nowak", s.Name)
	assert.Equal(t, "The Locksmith", *s.KnownAliases)

	require.NoError(t, suspects.Update(ctx, id, types.SuspectPatch{
		Name:         ptr("Marek J. Nowak"),
		KnownAliases: types.Clear[string](),
	}))
	s, err = suspects.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Marek J. Nowak", s.Name)
	assert.Nil(t, s.KnownAliases)
	assert.Equal(t, "Tall, scar on left hand", *s.Description)

	require.NoError(t, suspects.Delete(ctx, id))
	s, err = suspects.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSuspectsTable_ListByName(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	zed := addSuspect(t, b, "Zed")
	anna1 := addSuspect(t, b, "Anna")
	anna2 := addSuspect(t, b, "Anna")

	list, err := b.Suspects().List(ctx)
	require.NoError(t, err)
	var ids []int64
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{anna1, anna2, zed}, ids)
}

func TestSuspectsTable_History(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	sid := addSuspect(t, b, "K. Lewandowski")

	add := func(crimeType string, date *types.Date) int64 {
		t.Helper()
		id, err := b.Suspects().AddHistory(ctx, types.NewHistoryEntry{
			SuspectID:        sid,
			CrimeType:        crimeType,
			DateOfCrime:      date,
			ConvictionStatus: types.ConvictionConvicted,
		})
		require.NoError(t, err)
		return id
	}
	undated := add(types.CrimeFraud, nil)
	old := add(types.CrimeTheft, ptr(types.NewDate(1999, 1, 1)))
	recent := add(types.CrimeRobbery, ptr(types.NewDate(2012, 6, 30)))
	undatedLater := add(types.CrimeArson, nil)

	entries, err := b.Suspects().History(ctx, sid)
	require.NoError(t, err)
	var ids []int64
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	// Undated entries come last, newest first.
	assert.Equal(t, []int64{recent, old, undatedLater, undated}, ids)
	assert.Equal(t, "2012-06-30", entries[0].DateOfCrime.String())
	assert.Nil(t, entries[3].DateOfCrime)

	require.NoError(t, b.Suspects().DeleteHistory(ctx, old))
	entries, err = b.Suspects().History(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestSuspectsTable_DeleteCascades(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	sid := addSuspect(t, b, "removed")
	cid := addCase(t, b, "kept case", "2009-09-09", types.CrimeBurglary)
	_, err := b.Suspects().AddHistory(ctx, types.NewHistoryEntry{
		SuspectID: sid, CrimeType: types.CrimeBurglary, ConvictionStatus: types.ConvictionArrested,
	})
	require.NoError(t, err)
	_, err = b.SuspectLinks().Link(ctx, types.NewSuspectLink{SuspectID: sid, CaseID: cid, ConnectionType: "Fingerprint Match"})
	require.NoError(t, err)

	require.NoError(t, b.Suspects().Delete(ctx, sid))

	assert.Zero(t, countRows(t, b, types.SuspectCrimeHistTable, "suspect_id = ?", sid))
	assert.Zero(t, countRows(t, b, types.SuspectCaseLinksTable, "suspect_id = ?", sid))
	c, err := b.Cases().Get(ctx, cid)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestSuspectsTable_AddHistoryMissingSuspect(t *testing.T) {
	b := setupBackend(t)

	_, err := b.Suspects().AddHistory(context.Background(), types.NewHistoryEntry{
		SuspectID: 77, CrimeType: types.CrimeTheft, ConvictionStatus: types.ConvictionSuspected,
	})
	assert.ErrorIs(t, err, types.ErrMissingReference)
}
