// Package molecule reads molecule entries from Materials Project summary
// documents and compares their bonding graphs.
package molecule

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cognicore/rxnkit/internal/jsonkey"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
)

// Site is one atom of a molecule.
type Site struct {
	Element string
	XYZ     [3]float64
}

// Molecule is a charged set of atoms.
type Molecule struct {
	Charge           int
	SpinMultiplicity int
	Sites            []Site
}

// Species returns the element of every site in order.
func (m Molecule) Species() []string {
	out := make([]string, len(m.Sites))
	for i, s := range m.Sites {
		out[i] = s.Element
	}
	return out
}

// Formula returns the alphabetical formula with explicit counts,
// e.g. "C2 H6 O1".
func (m Molecule) Formula() string {
	counts := make(map[string]int)
	for _, s := range m.Sites {
		counts[s.Element]++
	}
	elems := make([]string, 0, len(counts))
	for e := range counts {
		elems = append(elems, e)
	}
	sort.Strings(elems)
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e + strconv.Itoa(counts[e])
	}
	return strings.Join(parts, " ")
}

func distance(a, b Site) float64 {
	dx := a.XYZ[0] - b.XYZ[0]
	dy := a.XYZ[1] - b.XYZ[1]
	dz := a.XYZ[2] - b.XYZ[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// parseMolecule reads a serialized pymatgen Molecule.
func parseMolecule(v gjson.Result) (Molecule, error) {
	sites := jsonkey.Get(v, "sites")
	if !sites.IsArray() {
		return Molecule{}, fmt.Errorf("molecule: %q: %w", "sites", internalerr.ErrMissingKey)
	}
	m := Molecule{
		Charge:           int(jsonkey.Get(v, "charge").Int()),
		SpinMultiplicity: int(jsonkey.Get(v, "spin_multiplicity").Int()),
	}
	for i, s := range sites.Array() {
		elem := siteElement(s)
		if elem == "" {
			return Molecule{}, fmt.Errorf("molecule: site %d: no element: %w", i, internalerr.ErrMissingKey)
		}
		site := Site{Element: elem}
		for k, c := range jsonkey.Get(s, "xyz").Array() {
			if k < 3 {
				site.XYZ[k] = c.Float()
			}
		}
		m.Sites = append(m.Sites, site)
	}
	return m, nil
}

// siteElement reads the element of a site, either from the species list
// or from the site label.
func siteElement(s gjson.Result) string {
	for _, sp := range jsonkey.Get(s, "species").Array() {
		if e := jsonkey.Get(sp, "element").String(); e != "" {
			return e
		}
	}
	return jsonkey.Get(s, "label").String()
}

func floats(v gjson.Result) []float64 {
	if !v.IsArray() {
		return nil
	}
	items := v.Array()
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = it.Float()
	}
	return out
}
