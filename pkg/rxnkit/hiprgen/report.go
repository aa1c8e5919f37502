// Package hiprgen reads the JSON reports written by a HiPRGen network run.
//
// Reports are walked with gjson so that object keys come back in document
// order; reactions keep the order the generator wrote them in.
package hiprgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/cognicore/rxnkit/internal/jsonkey"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/pathway"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

// Report file names inside a network directory.
const (
	TallyFile = "reaction_tally.json"
	SinkFile  = "sink_report.json"
)

// ErrNoReactions reports a tally without a "reactions" member.
var ErrNoReactions = fmt.Errorf("%q: %w", "reactions", internalerr.ErrMissingKey)

// PathwayFile is the pathway report name for a sink species.
func PathwayFile(speciesIndex int) string {
	return strconv.Itoa(speciesIndex) + "_pathway.json"
}

// Tally is a parsed reaction_tally.json.
type Tally struct {
	// Frequencies maps reaction index to how often it fired.
	Frequencies map[string]float64
	// Reactions holds every reaction in report order, with SelectionFreq
	// set from Frequencies (0 when absent).
	Reactions *reaction.Table
}

// Frequency returns the firing count of the reaction at index.
func (t *Tally) Frequency(index string) (float64, bool) {
	f, ok := t.Frequencies[index]
	return f, ok
}

// Sink is one entry of sink_report.json.
type Sink struct {
	Key          string
	SpeciesIndex int
}

// PathwayReport is a parsed <N>_pathway.json.
type PathwayReport struct {
	Pathways  []pathway.Record
	Reactions *reaction.Table
}

func parse(data []byte, what string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s: malformed JSON: %w", what, internalerr.ErrInvalidInput)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("%s: top level is not an object: %w", what, internalerr.ErrInvalidInput)
	}
	return doc, nil
}

// ParseTally decodes a reaction tally. phase is stamped on every reaction.
func ParseTally(data []byte, phase int) (*Tally, error) {
	doc, err := parse(data, TallyFile)
	if err != nil {
		return nil, err
	}

	t := &Tally{Frequencies: make(map[string]float64), Reactions: reaction.NewTable()}
	jsonkey.Get(doc, "pathways").ForEach(func(k, v gjson.Result) bool {
		t.Frequencies[k.String()] = v.Float()
		return true
	})

	reactions := jsonkey.Get(doc, "reactions")
	if !reactions.Exists() {
		return nil, fmt.Errorf("%s: %w", TallyFile, ErrNoReactions)
	}
	table, err := parseReactions(reactions, phase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TallyFile, err)
	}
	table.Each(func(r *reaction.Reaction) {
		r.SelectionFreq = t.Frequencies[r.Index]
	})
	t.Reactions = table
	return t, nil
}

// ParseSinkReport decodes the sink species report in document order.
func ParseSinkReport(data []byte) ([]Sink, error) {
	doc, err := parse(data, SinkFile)
	if err != nil {
		return nil, err
	}

	var sinks []Sink
	doc.ForEach(func(k, v gjson.Result) bool {
		idx := jsonkey.Get(v, "species_index")
		if !idx.Exists() {
			err = fmt.Errorf("%s: sink %q: %q: %w", SinkFile, k.String(), "species_index", internalerr.ErrMissingKey)
			return false
		}
		sinks = append(sinks, Sink{Key: k.String(), SpeciesIndex: int(idx.Int())})
		return true
	})
	if err != nil {
		return nil, err
	}
	return sinks, nil
}

// ParsePathwayReport decodes a pathway report for one sink species.
func ParsePathwayReport(data []byte) (*PathwayReport, error) {
	doc, err := parse(data, "pathway report")
	if err != nil {
		return nil, err
	}

	pathways := jsonkey.Get(doc, "pathways")
	if !pathways.Exists() {
		return nil, fmt.Errorf("pathway report: %q: %w", "pathways", internalerr.ErrMissingKey)
	}
	reactions := jsonkey.Get(doc, "reactions")
	if !reactions.Exists() {
		return nil, fmt.Errorf("pathway report: %q: %w", "reactions", internalerr.ErrMissingKey)
	}

	rep := &PathwayReport{}
	for i, p := range pathways.Array() {
		steps := jsonkey.Get(p, "pathway")
		if !steps.IsArray() {
			return nil, fmt.Errorf("pathway report: pathway %d: %q: %w", i, "pathway", internalerr.ErrMissingKey)
		}
		rec := pathway.Record{
			Weight:    jsonkey.Get(p, "weight").Float(),
			Frequency: jsonkey.Get(p, "frequency").Float(),
		}
		for _, s := range steps.Array() {
			rec.Reactions = append(rec.Reactions, s.String())
		}
		rep.Pathways = append(rep.Pathways, rec)
	}

	rep.Reactions, err = parseReactions(reactions, 0)
	if err != nil {
		return nil, fmt.Errorf("pathway report: %w", err)
	}
	return rep, nil
}

func parseReactions(obj gjson.Result, phase int) (*reaction.Table, error) {
	if !obj.IsObject() {
		return nil, fmt.Errorf("%q is not an object: %w", "reactions", internalerr.ErrInvalidInput)
	}
	table := reaction.NewTable()
	var err error
	obj.ForEach(func(k, v gjson.Result) bool {
		index := k.String()
		var r *reaction.Reaction
		r, err = parseReaction(index, v)
		if err != nil {
			return false
		}
		r.Phase = phase
		table.Put(r)
		return true
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func parseReaction(index string, v gjson.Result) (*reaction.Reaction, error) {
	reactants := jsonkey.Get(v, "reactants")
	products := jsonkey.Get(v, "products")
	if !reactants.IsArray() {
		return nil, fmt.Errorf("reaction %s: %q: %w", index, "reactants", internalerr.ErrMissingKey)
	}
	if !products.IsArray() {
		return nil, fmt.Errorf("reaction %s: %q: %w", index, "products", internalerr.ErrMissingKey)
	}
	return reaction.New(index, species(reactants), species(products)), nil
}

func species(arr gjson.Result) []string {
	items := arr.Array()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.String())
	}
	return out
}

func readReport(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.FromOpen(path, err)
	}
	return data, nil
}

// LoadTally reads dir/reaction_tally.json.
func LoadTally(dir string, phase int) (*Tally, error) {
	path := filepath.Join(dir, TallyFile)
	data, err := readReport(path)
	if err != nil {
		return nil, err
	}
	t, err := ParseTally(data, phase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadSinkReport reads dir/sink_report.json.
func LoadSinkReport(dir string) ([]Sink, error) {
	path := filepath.Join(dir, SinkFile)
	data, err := readReport(path)
	if err != nil {
		return nil, err
	}
	sinks, err := ParseSinkReport(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sinks, nil
}

// LoadPathwayReport reads the pathway report of a sink species from dir.
func LoadPathwayReport(dir string, speciesIndex int) (*PathwayReport, error) {
	path := filepath.Join(dir, PathwayFile(speciesIndex))
	data, err := readReport(path)
	if err != nil {
		return nil, err
	}
	rep, err := ParsePathwayReport(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rep, nil
}
