// Package testset builds molecule test sets: every database entry whose
// bonding graph matches a requested molecule, charge variants included,
// with bulky orbital-analysis fields removed.
package testset

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cognicore/rxnkit/internal/logging"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/molecule"
)

// DefaultStrip lists substrings of top-level keys that are dropped.
var DefaultStrip = []string{"nbo", "alpha", "beta"}

// ReadIDs reads one molecule id per line. Blank lines are skipped.
func ReadIDs(r io.Reader) ([]string, error) {
	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if id := strings.TrimSpace(sc.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// LoadIDs reads an id list file.
func LoadIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, internalerr.FromOpen(path, err)
	}
	defer f.Close()
	ids, err := ReadIDs(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ids, nil
}

// Strip returns doc re-encoded without the top-level keys containing any
// of subs. Key order and values are kept byte for byte.
func Strip(doc gjson.Result, subs []string) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	doc.ForEach(func(k, v gjson.Result) bool {
		name := k.String()
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(k.Raw)
		buf.WriteByte(':')
		buf.WriteString(v.Raw)
		return true
	})
	buf.WriteByte('}')
	return buf.Bytes()
}

// Generator selects and writes test sets.
type Generator struct {
	Backend molecule.GraphBackend
	Logger  logging.Logger
	// Strip overrides DefaultStrip when non-nil.
	Strip []string
}

// NewGenerator returns a generator using the gonum graph backend.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{Backend: molecule.NewGonumBackend(), Logger: logging.OrNop(logger)}
}

func (g *Generator) strip() []string {
	if g.Strip != nil {
		return g.Strip
	}
	return DefaultStrip
}

func (g *Generator) logger() logging.Logger { return logging.OrNop(g.Logger) }

func (g *Generator) backend() molecule.GraphBackend {
	if g.Backend == nil {
		return molecule.NewGonumBackend()
	}
	return g.Backend
}

// Select returns the documents, in database order, whose graphs are
// isomorphic to the graph of any requested id. Requested ids absent from
// the database are logged and skipped.
func (g *Generator) Select(ctx context.Context, ids []string, docs []gjson.Result) ([]gjson.Result, error) {
	entries, err := molecule.EntriesFromDocs(docs, g.backend())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*molecule.Entry, len(entries))
	for _, e := range entries {
		if _, dup := byID[e.ID]; !dup {
			byID[e.ID] = e
		}
	}

	backend := g.backend()
	keep := make([]bool, len(entries))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target, ok := byID[id]
		if !ok {
			g.logger().Warn("molecule id not in database", logging.String("id", id))
			continue
		}
		for i, e := range entries {
			if !keep[i] && backend.IsomorphicTo(e.Graph, target.Graph) {
				keep[i] = true
			}
		}
	}

	var out []gjson.Result
	for i, d := range docs {
		if keep[i] {
			out = append(out, d)
		}
	}
	return out, nil
}

// Write encodes docs as a JSON array with stripped keys.
func (g *Generator) Write(w io.Writer, docs []gjson.Result) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i, d := range docs {
		if i > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n")
		bw.Write(Strip(d, g.strip()))
	}
	bw.WriteString("\n]\n")
	return bw.Flush()
}

// Report summarizes a generated test set.
type Report struct {
	Requested int
	Written   int
	// Missing are requested ids that did not come back from the written file.
	Missing []string
}

// Generate reads the id list and the database, writes the test set to
// outPath and checks the written file.
func (g *Generator) Generate(ctx context.Context, idsPath, dbPath, outPath string) (*Report, error) {
	ids, err := LoadIDs(idsPath)
	if err != nil {
		return nil, err
	}
	docs, err := molecule.LoadDocs(dbPath)
	if err != nil {
		return nil, err
	}
	g.logger().Info("database loaded", logging.Int("docs", len(docs)), logging.Int("requested", len(ids)))

	selected, err := g.Select(ctx, ids, docs)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := g.Write(f, selected); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", outPath, err)
	}

	missing, err := g.Verify(outPath, ids)
	if err != nil {
		return nil, err
	}
	rep := &Report{Requested: len(ids), Written: len(selected), Missing: missing}
	if len(missing) == 0 {
		g.logger().Info("all requested entries copied", logging.Int("written", rep.Written))
	}
	for _, id := range missing {
		g.logger().Warn("entry not copied", logging.String("id", id))
	}
	return rep, nil
}

// Verify reloads a written test set and returns the requested ids it does
// not contain, in request order.
func (g *Generator) Verify(path string, requested []string) ([]string, error) {
	docs, err := molecule.LoadDocs(path)
	if err != nil {
		return nil, err
	}
	entries, err := molecule.EntriesFromDocs(docs, g.backend())
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", path, err)
	}
	have := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		have[e.ID] = struct{}{}
	}
	var missing []string
	seen := make(map[string]struct{})
	for _, id := range requested {
		if _, ok := have[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing, nil
}
