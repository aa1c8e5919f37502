package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store/memstore"
)

func writeTopInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	freq := filepath.Join(dir, "select_freq.txt")
	rxns := filepath.Join(dir, "reactions.txt")
	require.NoError(t, os.WriteFile(freq, []byte("1 10\n2 30\n3 5\n"), 0o644))
	require.NoError(t, os.WriteFile(rxns, []byte("1 A => C\n2 B => C\n3 A + B => D\n"), 0o644))
	return freq, rxns
}

func TestTopFormation(t *testing.T) {
	freq, rxns := writeTopInputs(t)
	st := memstore.New()

	res, err := Top(context.Background(), TopOptions{
		SelectFreqPath: freq,
		ReactionPath:   rxns,
		StartLine:      1,
		EndLine:        3,
		Role:           reaction.RoleProduct,
		Store:          st,
	})
	require.NoError(t, err)

	r, ok := res.Table.Get("C")
	require.True(t, ok)
	assert.Equal(t, "2", r.Index)

	entries, err := st.GetTopReactions(context.Background(), res.RunID, reaction.RoleProduct)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "C", entries[0].Species)
	assert.Equal(t, 30.0, entries[0].Reaction.SelectionFreq)
}

func TestTopRejectsUnknownRole(t *testing.T) {
	freq, rxns := writeTopInputs(t)
	_, err := Top(context.Background(), TopOptions{
		SelectFreqPath: freq,
		ReactionPath:   rxns,
		StartLine:      1,
		EndLine:        3,
		Role:           reaction.Role("catalyst"),
	})
	assert.Error(t, err)
}

func TestEntriesFollowSpeciesOrder(t *testing.T) {
	freq, rxns := writeTopInputs(t)
	res, err := Top(context.Background(), TopOptions{
		SelectFreqPath: freq, ReactionPath: rxns, StartLine: 1, EndLine: 3, Role: reaction.RoleReactant,
	})
	require.NoError(t, err)

	var species []string
	for _, e := range Entries(res.Table) {
		species = append(species, e.Species)
	}
	assert.Equal(t, []string{"A", "B"}, species)
}
