// Package storetest holds behaviour tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store"
)

// Run exercises st. The store must be empty.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("runs", func(t *testing.T) { testRuns(t, open(t)) })
	t.Run("classified", func(t *testing.T) { testClassified(t, open(t)) })
	t.Run("top", func(t *testing.T) { testTop(t, open(t)) })
	t.Run("unknown run", func(t *testing.T) { testUnknownRun(t, open(t)) })
}

func newRun(ids *store.RunIDs, at time.Time, kind string) store.Run {
	return store.Run{ID: ids.Next(at), Kind: kind, CreatedAt: at, Source: "/data/p1", Params: `{"threshold":500}`}
}

func testRuns(t *testing.T, st store.Store) {
	ctx := context.Background()
	ids := store.NewRunIDs()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	first := newRun(ids, base, store.KindClassify)
	second := newRun(ids, base.Add(time.Hour), store.KindTop)
	require.NoError(t, st.CreateRun(ctx, first))
	require.NoError(t, st.CreateRun(ctx, second))
	assert.Error(t, st.CreateRun(ctx, first), "duplicate id")
	assert.Error(t, st.CreateRun(ctx, store.Run{Kind: store.KindTop}), "empty id")

	got, ok, err := st.GetRun(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.Kind, got.Kind)
	assert.Equal(t, first.Params, got.Params)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	_, ok, err = st.GetRun(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID, "newest first")

	runs, err = st.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func testClassified(t *testing.T, st store.Store) {
	ctx := context.Background()
	run := newRun(store.NewRunIDs(), time.Now().UTC(), store.KindClassify)
	require.NoError(t, st.CreateRun(ctx, run))

	r1 := reaction.New("7", []string{"A", "B"}, []string{"C"})
	r1.SelectionFreq = 812
	r1.Tag = "combination"
	r1.Phase = 2
	r1.ClassificationList = []string{"chemical", "bimolecular", "combination"}
	r2 := reaction.New("3", []string{"A"}, []string{"A+", "e-"})
	r2.ClassificationList = []string{"ionization", "positive_ionization"}

	require.NoError(t, st.PutClassified(ctx, run.ID, []*reaction.Reaction{r1}))
	require.NoError(t, st.PutClassified(ctx, run.ID, []*reaction.Reaction{r2}))

	got, err := st.GetClassified(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, *r1, got[0])
	assert.Equal(t, *r2, got[1])

	got[0].Reactants[0] = "mutated"
	again, err := st.GetClassified(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Reactants[0])
}

func testTop(t *testing.T, st store.Store) {
	ctx := context.Background()
	run := newRun(store.NewRunIDs(), time.Now().UTC(), store.KindTop)
	require.NoError(t, st.CreateRun(ctx, run))

	entries := []store.TopEntry{
		{Species: "C", Reaction: *reaction.New("1", []string{"A"}, []string{"C"})},
		{Species: "D", Reaction: *reaction.New("2", []string{"B"}, []string{"D"})},
	}
	entries[0].Reaction.SelectionFreq = 9

	require.NoError(t, st.PutTopReactions(ctx, run.ID, reaction.RoleProduct, entries))
	got, err := st.GetTopReactions(ctx, run.ID, reaction.RoleProduct)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	require.NoError(t, st.PutTopReactions(ctx, run.ID, reaction.RoleProduct, entries[1:]))
	got, err = st.GetTopReactions(ctx, run.ID, reaction.RoleProduct)
	require.NoError(t, err)
	assert.Equal(t, entries[1:], got, "put replaces the table")

	other, err := st.GetTopReactions(ctx, run.ID, reaction.RoleReactant)
	require.NoError(t, err)
	assert.Empty(t, other)

	err = st.PutTopReactions(ctx, run.ID, reaction.Role("catalyst"), entries)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func testUnknownRun(t *testing.T, st store.Store) {
	ctx := context.Background()

	err := st.PutClassified(ctx, "nope", nil)
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
	_, err = st.GetClassified(ctx, "nope")
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
	err = st.PutTopReactions(ctx, "nope", reaction.RoleProduct, nil)
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
	_, err = st.GetTopReactions(ctx, "nope", reaction.RoleProduct)
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
}
