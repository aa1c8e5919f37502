package molecule

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/cognicore/rxnkit/internal/jsonkey"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
)

// MolGraph is a molecule's bonding graph: one node per site, labelled by
// element, and undirected bonds between site indices.
type MolGraph struct {
	Species []string
	Bonds   [][2]int // i < j, no duplicates
}

// NewMolGraph builds a graph from species and bonds, normalizing bond order
// and dropping self loops and duplicates.
func NewMolGraph(species []string, bonds [][2]int) (*MolGraph, error) {
	g := &MolGraph{Species: append([]string(nil), species...)}
	seen := make(map[[2]int]struct{}, len(bonds))
	for _, b := range bonds {
		i, j := b[0], b[1]
		if i < 0 || j < 0 || i >= len(species) || j >= len(species) {
			return nil, fmt.Errorf("bond %d-%d out of range for %d sites: %w", i, j, len(species), internalerr.ErrInvalidInput)
		}
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		key := [2]int{i, j}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		g.Bonds = append(g.Bonds, key)
	}
	return g, nil
}

// GraphBackend builds molecule graphs from geometry and decides graph
// isomorphism.
type GraphBackend interface {
	// BuildFromGeometry infers bonds from atom positions.
	BuildFromGeometry(m Molecule) (*MolGraph, error)
	// IsomorphicTo reports whether a and b are the same graph up to
	// relabelling of sites, with elements preserved.
	IsomorphicTo(a, b *MolGraph) bool
}

// parseMoleculeGraph reads a serialized pymatgen MoleculeGraph. Both the
// networkx adjacency layout and the node-link layout are accepted.
func parseMoleculeGraph(v gjson.Result, fallback Molecule) (*MolGraph, error) {
	species := fallback.Species()
	if mol := jsonkey.Get(v, "molecule"); mol.Exists() {
		m, err := parseMolecule(mol)
		if err != nil {
			return nil, fmt.Errorf("molecule graph: %w", err)
		}
		species = m.Species()
	}

	graphs := jsonkey.Get(v, "graphs")
	if !graphs.IsObject() {
		return nil, fmt.Errorf("molecule graph: %q: %w", "graphs", internalerr.ErrMissingKey)
	}

	ids := make(map[int64]int)
	for pos, n := range jsonkey.Get(graphs, "nodes").Array() {
		id := jsonkey.Get(n, "id")
		if id.Exists() {
			ids[id.Int()] = pos
		}
	}
	site := func(id int64) int {
		if pos, ok := ids[id]; ok {
			return pos
		}
		return int(id)
	}

	var bonds [][2]int
	switch {
	case jsonkey.Get(graphs, "adjacency").IsArray():
		for pos, nbrs := range jsonkey.Get(graphs, "adjacency").Array() {
			for _, nb := range nbrs.Array() {
				bonds = append(bonds, [2]int{pos, site(jsonkey.Get(nb, "id").Int())})
			}
		}
	case jsonkey.Get(graphs, "links").IsArray() || jsonkey.Get(graphs, "edges").IsArray():
		links := jsonkey.Get(graphs, "links")
		if !links.IsArray() {
			links = jsonkey.Get(graphs, "edges")
		}
		for _, l := range links.Array() {
			bonds = append(bonds, [2]int{site(jsonkey.Get(l, "source").Int()), site(jsonkey.Get(l, "target").Int())})
		}
	default:
		return nil, fmt.Errorf("molecule graph: no adjacency or links: %w", internalerr.ErrMissingKey)
	}
	return NewMolGraph(species, bonds)
}
