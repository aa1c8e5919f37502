package kinetiscope

import (
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
	"github.com/cognicore/rxnkit/pkg/rxnkit/toprxn"
)

// FindTopFormationReactions links each species to the reaction, among those
// producing it, that the simulation selected most often. Only frequency lines
// start..end are read.
func FindTopFormationReactions(selectFreqPath, reactionPath string, start, end int) (*toprxn.Table, error) {
	return findTop(selectFreqPath, reactionPath, start, end, reaction.RoleProduct)
}

// FindTopReactantReactions is FindTopFormationReactions for the reactant role.
func FindTopReactantReactions(selectFreqPath, reactionPath string, start, end int) (*toprxn.Table, error) {
	return findTop(selectFreqPath, reactionPath, start, end, reaction.RoleReactant)
}

// LoadTable reads both reports and joins them into an index-reaction table.
func LoadTable(selectFreqPath, reactionPath string, start, end int) (*reaction.Table, error) {
	freqs, err := LoadFrequencies(selectFreqPath, start, end)
	if err != nil {
		return nil, err
	}
	return LoadReactions(reactionPath, freqs)
}

func findTop(selectFreqPath, reactionPath string, start, end int, role reaction.Role) (*toprxn.Table, error) {
	table, err := LoadTable(selectFreqPath, reactionPath, start, end)
	if err != nil {
		return nil, err
	}
	return toprxn.SelectRole(table, role)
}
