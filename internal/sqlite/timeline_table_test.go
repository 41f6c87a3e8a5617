package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func mustTimestamp(t *testing.T, s string) types.Timestamp {
	t.Helper()
	ts, err := types.ParseTimestamp(s)
	require.NoError(t, err)
	return ts
}

func TestTimeline_ListOrder(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	cid := addCase(t, b, "timeline", "2022-03-01", types.CrimeKidnapping)

	add := func(ts, title string) int64 {
		t.Helper()
		id, err := b.Timeline().Add(ctx, types.NewEvent{CaseID: cid, EventTimestamp: mustTimestamp(t, ts), Title: title})
		require.NoError(t, err)
		return id
	}
	reported := add("2022-03-01 08:00:00", "Reported missing")
	ransomA := add("2022-03-02 21:15:00", "Ransom call")
	found := add("2022-03-05 06:30:00", "Victim found")
	ransomB := add("2022-03-02 21:15:00", "Second call")

	events, err := b.Timeline().List(ctx, cid)
	require.NoError(t, err)
	var ids []int64
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{found, ransomB, ransomA, reported}, ids)
	assert.Equal(t, "2022-03-05 06:30:00", events[0].EventTimestamp.String())

	require.NoError(t, b.Timeline().Delete(ctx, found))
	events, err = b.Timeline().List(ctx, cid)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestTimeline_ListAll(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	in := addCase(t, b, "in project", "2022-01-01", types.CrimeTheft)
	out := addCase(t, b, "not in project", "2022-01-02", types.CrimeTheft)
	pid, err := b.Projects().Add(ctx, types.NewProject{Name: "timeline"})
	require.NoError(t, err)
	require.NoError(t, b.Projects().Assign(ctx, pid, in))

	_, err = b.Timeline().Add(ctx, types.NewEvent{CaseID: in, EventTimestamp: mustTimestamp(t, "2022-01-01 10:00"), Title: "first"})
	require.NoError(t, err)
	_, err = b.Timeline().Add(ctx, types.NewEvent{CaseID: out, EventTimestamp: mustTimestamp(t, "2022-01-03 10:00"), Title: "second"})
	require.NoError(t, err)

	all, err := b.Timeline().ListAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title)
	assert.Equal(t, "not in project", all[0].CaseTitle)
	assert.Equal(t, "in project", all[1].CaseTitle)

	scoped, err := b.Timeline().ListAll(ctx, &pid)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "first", scoped[0].Title)
}
