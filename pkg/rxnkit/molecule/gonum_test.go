package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(t *testing.T, species []string, bonds ...[2]int) *MolGraph {
	t.Helper()
	g, err := NewMolGraph(species, bonds)
	require.NoError(t, err)
	return g
}

func TestIsomorphicRelabelled(t *testing.T) {
	b := NewGonumBackend()
	// C-C-O with hydrogens on the carbons, atoms listed in two orders.
	a := graph(t, []string{"C", "C", "O", "H", "H"}, [2]int{0, 1}, [2]int{1, 2}, [2]int{0, 3}, [2]int{1, 4})
	c := graph(t, []string{"H", "O", "H", "C", "C"}, [2]int{4, 3}, [2]int{3, 1}, [2]int{4, 0}, [2]int{3, 2})

	assert.True(t, b.IsomorphicTo(a, c))
	assert.True(t, b.IsomorphicTo(c, a))
	assert.Equal(t, b.Hash(a), b.Hash(c))
}

func TestNotIsomorphic(t *testing.T) {
	b := NewGonumBackend()
	ccO := graph(t, []string{"C", "C", "O"}, [2]int{0, 1}, [2]int{1, 2})
	cOc := graph(t, []string{"C", "O", "C"}, [2]int{0, 1}, [2]int{1, 2})
	assert.False(t, b.IsomorphicTo(ccO, cOc), "same atoms, different connectivity")

	triangle := graph(t, []string{"C", "C", "C"}, [2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2})
	path := graph(t, []string{"C", "C", "C"}, [2]int{0, 1}, [2]int{1, 2})
	assert.False(t, b.IsomorphicTo(triangle, path))

	assert.False(t, b.IsomorphicTo(path, graph(t, []string{"C", "C"}, [2]int{0, 1})))
	assert.False(t, b.IsomorphicTo(path, nil))
	assert.True(t, b.IsomorphicTo(nil, nil))
}

func TestIsomorphicRegularGraphs(t *testing.T) {
	// Two 2-regular graphs on six carbons: one hexagon versus two
	// triangles. WL labels agree, so only the exact match separates them.
	b := NewGonumBackend()
	six := []string{"C", "C", "C", "C", "C", "C"}
	hexagon := graph(t, six, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{5, 0})
	triangles := graph(t, six, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}, [2]int{3, 4}, [2]int{4, 5}, [2]int{5, 3})
	assert.Equal(t, b.Hash(hexagon), b.Hash(triangles))
	assert.False(t, b.IsomorphicTo(hexagon, triangles))

	rotated := graph(t, six, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{5, 0}, [2]int{0, 1}, [2]int{1, 2})
	assert.True(t, b.IsomorphicTo(hexagon, rotated))
}

func TestBuildFromGeometry(t *testing.T) {
	b := NewGonumBackend()
	m := Molecule{Sites: []Site{
		{Element: "Li", XYZ: [3]float64{0, 0, 0}},
		{Element: "Li", XYZ: [3]float64{2.0, 0, 0}},
		{Element: "F", XYZ: [3]float64{0, 1.6, 0}},
		{Element: "Xx", XYZ: [3]float64{0, 0, 0.5}},
	}}
	g, err := b.BuildFromGeometry(m)
	require.NoError(t, err)
	// Li-Li is within range but metals do not bond to each other; Li(1)-F
	// is 2.56 A, beyond (1.28+0.57)*1.2.
	assert.Equal(t, [][2]int{{0, 2}}, g.Bonds)
}
