package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameIsOrderIndependent(t *testing.T) {
	a := New("1", []string{"B", "A", "A"}, []string{"D", "C"})
	b := New("2", []string{"A", "B", "A"}, []string{"C", "D"})

	assert.Equal(t, "A + A + B => C + D", a.Name())
	assert.Equal(t, a.Name(), b.Name())
	assert.Equal(t, "B + A + A => D + C", a.Equation())
}

func TestNameKeepsMultiplicity(t *testing.T) {
	a := New("1", []string{"A", "B"}, []string{"C"})
	b := New("2", []string{"A", "A", "B"}, []string{"C"})
	assert.NotEqual(t, a.Name(), b.Name())
}

func TestNewCopiesSpecies(t *testing.T) {
	reactants := []string{"A"}
	r := New("1", reactants, nil)
	reactants[0] = "Z"
	assert.Equal(t, []string{"A"}, r.Reactants)
}

func TestSpeciesByRole(t *testing.T) {
	r := New("1", []string{"A"}, []string{"B", "C"})
	assert.Equal(t, []string{"A"}, r.Species(RoleReactant))
	assert.Equal(t, []string{"B", "C"}, r.Species(RoleProduct))
	assert.Nil(t, r.Species(Role("catalyst")))
	assert.False(t, Role("catalyst").Valid())
}

func TestTableKeepsInsertionOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Put(New("9", []string{"A"}, []string{"B"}))
	tbl.Put(New("2", []string{"B"}, []string{"C"}))
	tbl.Put(New("5", []string{"C"}, []string{"D"}))

	assert.Equal(t, []string{"9", "2", "5"}, tbl.Indices())

	// Replacing keeps the original slot.
	tbl.Put(New("2", []string{"X"}, []string{"Y"}))
	assert.Equal(t, []string{"9", "2", "5"}, tbl.Indices())
	r, ok := tbl.Get("2")
	require.True(t, ok)
	assert.Equal(t, []string{"X"}, r.Reactants)

	_, ok = tbl.Get("404")
	assert.False(t, ok)
	assert.Equal(t, 3, tbl.Len())
}
