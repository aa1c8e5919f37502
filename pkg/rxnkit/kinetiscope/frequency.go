// Package kinetiscope reads the flat text reports written by a Kinetiscope
// kinetic Monte Carlo run: the per-reaction selection-frequency table and the
// reaction-definition list.
package kinetiscope

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
)

// FrequencyTable maps a reaction index to how often the simulation selected it.
type FrequencyTable map[string]float64

// Get returns the frequency for index, or 0 when the index was not reported.
func (f FrequencyTable) Get(index string) float64 {
	return f[index]
}

const maxLine = 1 << 20

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return sc
}

// ParseFrequencies reads "index frequency" records from the lines numbered
// start through end (1-based, inclusive). Lines outside the range are not
// inspected. start > end gives an empty table.
func ParseFrequencies(r io.Reader, start, end int) (FrequencyTable, error) {
	table := make(FrequencyTable)
	if start > end {
		return table, nil
	}

	sc := newScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo < start {
			continue
		}
		if lineNo > end {
			break
		}

		raw := sc.Text()
		fields := strings.Fields(raw)
		if len(fields) < 2 {
			return nil, &internalerr.ParseError{Line: lineNo, Content: raw, Reason: "expected index and frequency"}
		}
		index, err := parseIndex(fields[0])
		if err != nil {
			return nil, &internalerr.ParseError{Line: lineNo, Content: raw, Reason: "bad reaction index"}
		}
		freq, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || freq < 0 {
			return nil, &internalerr.ParseError{Line: lineNo, Content: raw, Reason: "bad selection frequency"}
		}
		table[index] = freq
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadFrequencies opens path and parses it with ParseFrequencies.
func LoadFrequencies(path string, start, end int) (FrequencyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, internalerr.FromOpen(path, err)
	}
	defer f.Close()

	table, err := ParseFrequencies(f, start, end)
	if err != nil {
		return nil, internalerr.WithPath(path, err)
	}
	return table, nil
}

// parseIndex validates an integer reaction index and returns its canonical form.
func parseIndex(s string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(s, ":"))
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n), nil
}
