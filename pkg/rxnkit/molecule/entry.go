package molecule

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cognicore/rxnkit/internal/jsonkey"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
)

// RoomTemp is the default temperature for free energies, in kelvin.
const RoomTemp = 298.15

// Graph keys tried in order when reading a document's molecule_graph.
const (
	GraphKeyNBO       = "nbo"
	GraphKeyOpenBabel = "OpenBabelNN + metal_edge_extender"
)

// Entry is one molecule with its thermochemistry. Energies are in eV and
// entropy in eV/K.
type Entry struct {
	ID       string
	Molecule Molecule
	Graph    *MolGraph

	Energy   float64
	Enthalpy *float64
	Entropy  *float64
	// Solvent is the key energies were read under, empty for gas phase docs.
	Solvent string

	PartialChargesRESP     []float64
	PartialChargesMulliken []float64
	PartialChargesNBO      []float64
	ElectronAffinity       float64
	IonizationEnergy       float64
	SpinMultiplicity       int
}

// Formula is the alphabetical formula of the molecule.
func (e *Entry) Formula() string { return e.Molecule.Formula() }

// Charge is the total charge of the molecule.
func (e *Entry) Charge() int { return e.Molecule.Charge }

// FreeEnergy returns E + H - T*S. It reports false when enthalpy or
// entropy is unknown.
func (e *Entry) FreeEnergy(temperature float64) (float64, bool) {
	if e.Enthalpy == nil || e.Entropy == nil {
		return 0, false
	}
	return e.Energy + *e.Enthalpy - temperature*(*e.Entropy), true
}

func (e *Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MoleculeEntry %s - %s\n", e.ID, e.Formula())
	fmt.Fprintf(&b, "Total charge = %d\n", e.Charge())
	writeEnergy(&b, "Energy", "eV", &e.Energy)
	writeEnergy(&b, "Enthalpy", "eV", e.Enthalpy)
	writeEnergy(&b, "Entropy", "eV/K", e.Entropy)
	var g *float64
	if v, ok := e.FreeEnergy(RoomTemp); ok {
		g = &v
	}
	writeEnergy(&b, fmt.Sprintf("Free Energy (%.2f K)", RoomTemp), "eV", g)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeEnergy(b *strings.Builder, name, unit string, v *float64) {
	if v == nil {
		fmt.Fprintf(b, "%s = None %s\n", name, unit)
		return
	}
	fmt.Fprintf(b, "%s = %.4f %s\n", name, *v, unit)
}

// FromMPDoc builds an Entry from a Materials Project summary document.
//
// Energies are either plain numbers or objects keyed by solvent, in which
// case the first solvent is used for every solvent-keyed field. The bonding
// graph comes from molecule_graph under "nbo", then under
// "OpenBabelNN + metal_edge_extender", then under that key inside the
// solvent. Documents without any of these get a graph built from geometry
// by backend; a nil backend makes that case an error.
func FromMPDoc(doc gjson.Result, backend GraphBackend) (*Entry, error) {
	id := jsonkey.Get(doc, "molecule_id")
	if !id.Exists() {
		return nil, fmt.Errorf("molecule doc: %q: %w", "molecule_id", internalerr.ErrMissingKey)
	}
	e := &Entry{ID: id.String()}
	wrap := func(err error) error { return fmt.Errorf("molecule %s: %w", e.ID, err) }

	molDoc := jsonkey.Get(doc, "molecule")
	if !molDoc.Exists() {
		return nil, wrap(fmt.Errorf("%q: %w", "molecule", internalerr.ErrMissingKey))
	}
	mol, err := parseMolecule(molDoc)
	if err != nil {
		return nil, wrap(err)
	}
	e.Molecule = mol

	energy := jsonkey.Get(doc, "electronic_energy")
	switch {
	case energy.IsObject():
		energy.ForEach(func(k, v gjson.Result) bool {
			e.Solvent = k.String()
			e.Energy = v.Float()
			return false
		})
		if e.Solvent == "" {
			return nil, wrap(fmt.Errorf("%q has no solvent entries: %w", "electronic_energy", internalerr.ErrMissingKey))
		}
	case energy.Exists():
		e.Energy = energy.Float()
	default:
		return nil, wrap(fmt.Errorf("%q: %w", "electronic_energy", internalerr.ErrMissingKey))
	}
	e.Enthalpy = optionalFloat(e.solventField(doc, "total_enthalpy"))
	e.Entropy = optionalFloat(e.solventField(doc, "total_entropy"))

	graph, err := e.readGraph(doc, backend)
	if err != nil {
		return nil, wrap(err)
	}
	e.Graph = graph

	charges := e.solventField(doc, "partial_charges")
	e.PartialChargesRESP = floats(jsonkey.Get(charges, "resp"))
	e.PartialChargesMulliken = floats(jsonkey.Get(charges, "mulliken"))
	e.PartialChargesNBO = floats(jsonkey.Get(charges, "nbo"))

	e.ElectronAffinity = jsonkey.Get(doc, "electron_affinity").Float()
	e.IonizationEnergy = jsonkey.Get(doc, "ionization_energy").Float()

	spin := jsonkey.Get(doc, "spin_multiplicity")
	if !spin.Exists() {
		return nil, wrap(fmt.Errorf("%q: %w", "spin_multiplicity", internalerr.ErrMissingKey))
	}
	e.SpinMultiplicity = int(spin.Int())
	return e, nil
}

// solventField returns doc[key][solvent] for solvent-keyed docs and
// doc[key] otherwise.
func (e *Entry) solventField(doc gjson.Result, key string) gjson.Result {
	v := jsonkey.Get(doc, key)
	if e.Solvent != "" && v.IsObject() {
		if sv := jsonkey.Get(v, e.Solvent); sv.Exists() {
			return sv
		}
	}
	return v
}

func (e *Entry) readGraph(doc gjson.Result, backend GraphBackend) (*MolGraph, error) {
	graphs := jsonkey.Get(doc, "molecule_graph")
	candidates := []gjson.Result{jsonkey.Get(graphs, GraphKeyNBO), jsonkey.Get(graphs, GraphKeyOpenBabel)}
	if e.Solvent != "" {
		candidates = append(candidates, jsonkey.Get(jsonkey.Get(graphs, e.Solvent), GraphKeyOpenBabel))
	}
	for _, c := range candidates {
		if c.IsObject() {
			return parseMoleculeGraph(c, e.Molecule)
		}
	}
	if backend == nil {
		return nil, fmt.Errorf("%q: no usable graph: %w", "molecule_graph", internalerr.ErrMissingKey)
	}
	return backend.BuildFromGeometry(e.Molecule)
}

func optionalFloat(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

// ParseDocs splits a JSON array of documents, keeping each raw document.
func ParseDocs(data []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("molecule docs: malformed JSON: %w", internalerr.ErrInvalidInput)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("molecule docs: top level is not an array: %w", internalerr.ErrInvalidInput)
	}
	return root.Array(), nil
}

// LoadDocs reads a JSON array of documents from path.
func LoadDocs(path string) ([]gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.FromOpen(path, err)
	}
	docs, err := ParseDocs(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// EntriesFromDocs converts every document, failing on the first bad one.
func EntriesFromDocs(docs []gjson.Result, backend GraphBackend) ([]*Entry, error) {
	out := make([]*Entry, 0, len(docs))
	for i, d := range docs {
		e, err := FromMPDoc(d, backend)
		if err != nil {
			return nil, fmt.Errorf("doc %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
