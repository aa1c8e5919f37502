package toprxn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

func rxn(index string, freq float64, reactants, products []string) *reaction.Reaction {
	r := reaction.New(index, reactants, products)
	r.SelectionFreq = freq
	return r
}

func buildTable(rs ...*reaction.Reaction) *reaction.Table {
	t := reaction.NewTable()
	for _, r := range rs {
		t.Put(r)
	}
	return t
}

func TestSelectProductPicksHighestFrequency(t *testing.T) {
	table := buildTable(
		rxn("1", 10, []string{"A"}, []string{"C"}),
		rxn("2", 50, []string{"B"}, []string{"C"}),
		rxn("3", 20, []string{"D"}, []string{"C", "E"}),
	)

	top := Select(table, reaction.RoleProduct)

	c, ok := top.Get("C")
	require.True(t, ok)
	assert.Equal(t, "2", c.Index)

	e, ok := top.Get("E")
	require.True(t, ok)
	assert.Equal(t, "3", e.Index)

	// every other candidate for C is not better
	for _, r := range table.Reactions() {
		for _, p := range r.Products {
			if p == "C" {
				assert.GreaterOrEqual(t, c.SelectionFreq, r.SelectionFreq)
			}
		}
	}
}

func TestSelectTiesKeepFirstSeen(t *testing.T) {
	table := buildTable(
		rxn("7", 5, []string{"A"}, []string{"P"}),
		rxn("3", 5, []string{"B"}, []string{"P"}),
		rxn("9", 4, []string{"C"}, []string{"P"}),
	)

	top := FormationReactions(table)
	p, ok := top.Get("P")
	require.True(t, ok)
	assert.Equal(t, "7", p.Index, "equal frequency must not replace the earlier reaction")
}

func TestSelectReactantRole(t *testing.T) {
	table := buildTable(
		rxn("1", 1, []string{"A", "A", "B"}, []string{"C"}),
		rxn("2", 3, []string{"B"}, []string{"D"}),
	)

	top := ReactantReactions(table)
	assert.Equal(t, []string{"A", "B"}, top.Species())

	a, _ := top.Get("A")
	b, _ := top.Get("B")
	assert.Equal(t, "1", a.Index)
	assert.Equal(t, "2", b.Index)
	assert.Equal(t, reaction.RoleReactant, top.Role)
}

func TestSelectDuplicateOccurrenceIsNoOp(t *testing.T) {
	r := rxn("1", 4, []string{"A", "A", "B"}, []string{"C"})
	top := newTable(reaction.RoleReactant)

	assert.True(t, top.shouldUpdate("A", r))
	top.offer("A", r)
	// Second occurrence of A in the same reaction: not strictly greater.
	assert.False(t, top.shouldUpdate("A", r))
	top.offer("A", r)

	got, _ := top.Get("A")
	assert.Same(t, r, got)
	assert.Equal(t, 1, top.Len())

	full := Select(buildTable(r), reaction.RoleReactant)
	assert.Equal(t, []string{"A", "B"}, full.Species())
	products := Select(buildTable(r), reaction.RoleProduct)
	assert.Equal(t, []string{"C"}, products.Species())
}

func TestSelectIsIdempotentAndPure(t *testing.T) {
	table := buildTable(
		rxn("1", 10, []string{"A"}, []string{"C"}),
		rxn("2", 30, []string{"B"}, []string{"C", "D"}),
		rxn("3", 30, []string{"E"}, []string{"D"}),
	)
	before := table.Indices()

	first := Select(table, reaction.RoleProduct)
	second := Select(table, reaction.RoleProduct)

	assert.Equal(t, first.Species(), second.Species())
	first.Each(func(sp string, r *reaction.Reaction) {
		other, ok := second.Get(sp)
		require.True(t, ok)
		assert.Same(t, r, other)
	})
	assert.Equal(t, before, table.Indices())
	assert.Equal(t, 30.0, table.Reactions()[1].SelectionFreq)
}

func TestSelectMissIsNotError(t *testing.T) {
	top := Select(reaction.NewTable(), reaction.RoleProduct)
	r, ok := top.Get("nothing")
	assert.Nil(t, r)
	assert.False(t, ok)
}

func TestSelectRoleRejectsUnknownRole(t *testing.T) {
	_, err := SelectRole(reaction.NewTable(), reaction.Role("solvent"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	assert.Equal(t, 0, Select(buildTable(rxn("1", 1, []string{"A"}, []string{"B"})), "solvent").Len())
}
