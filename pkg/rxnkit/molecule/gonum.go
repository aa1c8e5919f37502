package molecule

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
)

// covalentRadii in angstrom, for the elements found in electrolyte
// and resist chemistry datasets.
var covalentRadii = map[string]float64{
	"H": 0.31, "Li": 1.28, "B": 0.84, "C": 0.76, "N": 0.71, "O": 0.66,
	"F": 0.57, "Na": 1.66, "Mg": 1.41, "Al": 1.21, "Si": 1.11, "P": 1.07,
	"S": 1.05, "Cl": 1.02, "K": 2.03, "Ca": 1.76, "Br": 1.20, "Sn": 1.39,
	"I": 1.39, "Sb": 1.39, "Te": 1.38,
}

// metals only bond to non-metals.
var metals = map[string]bool{"Li": true, "Na": true, "Mg": true, "K": true, "Ca": true, "Al": true}

const defaultBondTolerance = 1.2

// GonumBackend is a GraphBackend on gonum's undirected simple graphs.
// Bonds are inferred from covalent radii; isomorphism uses a
// Weisfeiler-Lehman hash as a filter and an exact backtracking match.
type GonumBackend struct {
	// Tolerance scales the sum of covalent radii when inferring bonds.
	Tolerance float64
	// Iterations of Weisfeiler-Lehman refinement.
	Iterations int
}

// NewGonumBackend returns a backend with default settings.
func NewGonumBackend() *GonumBackend {
	return &GonumBackend{Tolerance: defaultBondTolerance, Iterations: 3}
}

// BuildFromGeometry bonds every pair of sites closer than the scaled sum of
// their covalent radii. Unknown elements never bond.
func (b *GonumBackend) BuildFromGeometry(m Molecule) (*MolGraph, error) {
	tol := b.Tolerance
	if tol <= 0 {
		tol = defaultBondTolerance
	}
	var bonds [][2]int
	for i := 0; i < len(m.Sites); i++ {
		ri, ok := covalentRadii[m.Sites[i].Element]
		if !ok {
			continue
		}
		for j := i + 1; j < len(m.Sites); j++ {
			rj, ok := covalentRadii[m.Sites[j].Element]
			if !ok {
				continue
			}
			if metals[m.Sites[i].Element] && metals[m.Sites[j].Element] {
				continue
			}
			if distance(m.Sites[i], m.Sites[j]) <= (ri+rj)*tol {
				bonds = append(bonds, [2]int{i, j})
			}
		}
	}
	return NewMolGraph(m.Species(), bonds)
}

func toGonum(g *MolGraph) *simple.UndirectedGraph {
	u := simple.NewUndirectedGraph()
	for i := range g.Species {
		u.AddNode(simple.Node(int64(i)))
	}
	for _, bond := range g.Bonds {
		u.SetEdge(simple.Edge{F: simple.Node(int64(bond[0])), T: simple.Node(int64(bond[1]))})
	}
	return u
}

func neighbors(u *simple.UndirectedGraph, id int64) []int64 {
	var out []int64
	it := u.From(id)
	for it.Next() {
		out = append(out, it.Node().ID())
	}
	return out
}

// wlLabels refines element labels by neighbourhood for the given number of
// rounds. Labels are renumbered each round; isomorphic graphs get the same
// numbering because they have the same label multisets.
func wlLabels(u *simple.UndirectedGraph, species []string, rounds int) []string {
	labels := append([]string(nil), species...)
	for r := 0; r < rounds; r++ {
		next := make([]string, len(labels))
		for i := range labels {
			var nb []string
			for _, j := range neighbors(u, int64(i)) {
				nb = append(nb, labels[j])
			}
			sort.Strings(nb)
			next[i] = labels[i] + "(" + strings.Join(nb, ",") + ")"
		}
		// Compress to keep labels short across rounds.
		ids := make(map[string]string)
		keys := append([]string(nil), next...)
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := ids[k]; !ok {
				ids[k] = strconv.Itoa(len(ids))
			}
		}
		for i, l := range next {
			next[i] = species[i] + "#" + ids[l]
		}
		labels = next
	}
	return labels
}

// Hash returns a Weisfeiler-Lehman hash of g. Isomorphic graphs hash
// equal; the converse does not hold.
func (b *GonumBackend) Hash(g *MolGraph) string {
	return b.hash(toGonum(g), g)
}

func (b *GonumBackend) hash(u *simple.UndirectedGraph, g *MolGraph) string {
	var sb strings.Builder
	labels := append([]string(nil), g.Species...)
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	sb.WriteString(strings.Join(sorted, ","))
	for r := 1; r <= b.rounds(); r++ {
		labels = wlRound(u, labels)
		sorted = append(sorted[:0], labels...)
		sort.Strings(sorted)
		sb.WriteString("|")
		sb.WriteString(strings.Join(sorted, ","))
	}
	return sb.String()
}

// wlRound is one refinement step without compression, so labels stay
// comparable across graphs.
func wlRound(u *simple.UndirectedGraph, labels []string) []string {
	next := make([]string, len(labels))
	for i := range labels {
		var nb []string
		for _, j := range neighbors(u, int64(i)) {
			nb = append(nb, labels[j])
		}
		sort.Strings(nb)
		next[i] = labels[i] + "(" + strings.Join(nb, ",") + ")"
	}
	return next
}

func (b *GonumBackend) rounds() int {
	if b.Iterations <= 0 {
		return 3
	}
	return b.Iterations
}

// IsomorphicTo reports whether a and b are isomorphic with elements
// preserved.
func (b *GonumBackend) IsomorphicTo(a, c *MolGraph) bool {
	if a == nil || c == nil {
		return a == c
	}
	if len(a.Species) != len(c.Species) || len(a.Bonds) != len(c.Bonds) {
		return false
	}
	ua, uc := toGonum(a), toGonum(c)
	if b.hash(ua, a) != b.hash(uc, c) {
		return false
	}
	return exactMatch(ua, uc, a.Species, c.Species)
}

// exactMatch searches for an element- and bond-preserving bijection.
func exactMatch(ua, uc *simple.UndirectedGraph, sa, sc []string) bool {
	n := len(sa)
	la := wlLabels(ua, sa, 2)
	lc := wlLabels(uc, sc, 2)

	// Match the most constrained atoms first: rarest label.
	freq := make(map[string]int)
	for _, l := range la {
		freq[l]++
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return freq[la[order[x]]] < freq[la[order[y]]] })

	mapping := make([]int, n)
	for i := range mapping {
		mapping[i] = -1
	}
	used := make([]bool, n)

	var try func(k int) bool
	try = func(k int) bool {
		if k == n {
			return true
		}
		i := order[k]
		for j := 0; j < n; j++ {
			if used[j] || la[i] != lc[j] {
				continue
			}
			if !consistent(ua, uc, mapping, i, j) {
				continue
			}
			mapping[i] = j
			used[j] = true
			if try(k + 1) {
				return true
			}
			mapping[i] = -1
			used[j] = false
		}
		return false
	}
	return try(0)
}

// consistent checks that mapping i to j preserves bonds to every site
// already mapped.
func consistent(ua, uc *simple.UndirectedGraph, mapping []int, i, j int) bool {
	for x, y := range mapping {
		if y < 0 {
			continue
		}
		if ua.HasEdgeBetween(int64(i), int64(x)) != uc.HasEdgeBetween(int64(j), int64(y)) {
			return false
		}
	}
	return true
}
