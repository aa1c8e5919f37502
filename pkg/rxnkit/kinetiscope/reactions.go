package kinetiscope

import (
	"io"
	"os"
	"strings"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

var arrows = []string{"=>", "->"}

// ParseReactions reads one reaction per line in the form
//
//	<index> A + B => C + D
//
// and attaches the selection frequency from freqs (0 when absent).
// Blank lines and lines starting with '#' are skipped.
func ParseReactions(r io.Reader, freqs FrequencyTable) (*reaction.Table, error) {
	table := reaction.NewTable()

	sc := newScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rxn, reason := parseReactionLine(line)
		if reason != "" {
			return nil, &internalerr.ParseError{Line: lineNo, Content: raw, Reason: reason}
		}
		rxn.SelectionFreq = freqs.Get(rxn.Index)
		table.Put(rxn)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadReactions opens path and parses it with ParseReactions.
func LoadReactions(path string, freqs FrequencyTable) (*reaction.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, internalerr.FromOpen(path, err)
	}
	defer f.Close()

	table, err := ParseReactions(f, freqs)
	if err != nil {
		return nil, internalerr.WithPath(path, err)
	}
	return table, nil
}

func parseReactionLine(line string) (*reaction.Reaction, string) {
	cut := strings.IndexAny(line, " \t")
	if cut < 0 {
		return nil, "expected index and equation"
	}
	index, err := parseIndex(line[:cut])
	if err != nil {
		return nil, "bad reaction index"
	}

	equation := line[cut+1:]
	var lhs, rhs string
	found := false
	for _, arrow := range arrows {
		if i := strings.Index(equation, arrow); i >= 0 {
			lhs, rhs = equation[:i], equation[i+len(arrow):]
			found = true
			break
		}
	}
	if !found {
		return nil, "missing reaction arrow"
	}

	reactants, reason := splitSide(lhs)
	if reason != "" {
		return nil, "reactants: " + reason
	}
	products, reason := splitSide(rhs)
	if reason != "" {
		return nil, "products: " + reason
	}
	return reaction.New(index, reactants, products), ""
}

// splitSide splits "A + B" on whitespace-delimited plus signs, so species
// names carrying a charge suffix such as "Li+" stay intact.
func splitSide(s string) ([]string, string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, "empty side"
	}
	var out []string
	expectSpecies := true
	for _, f := range fields {
		if f == "+" {
			if expectSpecies {
				return nil, "empty species"
			}
			expectSpecies = true
			continue
		}
		if !expectSpecies {
			return nil, "missing '+' between species"
		}
		out = append(out, f)
		expectSpecies = false
	}
	if expectSpecies {
		return nil, "empty species"
	}
	return out, ""
}
