// Package toprxn picks, for every species, the reaction that the kinetic
// simulation selected most often among the reactions where that species plays
// a given role.
package toprxn

import (
	"fmt"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

// Table maps species to its top reaction, in the order species were first seen.
type Table struct {
	Role    reaction.Role
	order   []string
	entries map[string]*reaction.Reaction
}

func newTable(role reaction.Role) *Table {
	return &Table{Role: role, entries: make(map[string]*reaction.Reaction)}
}

// Get returns the top reaction for species. A miss is not an error.
func (t *Table) Get(species string) (*reaction.Reaction, bool) {
	r, ok := t.entries[species]
	return r, ok
}

// Species returns the species in first-seen order.
func (t *Table) Species() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of species in the table.
func (t *Table) Len() int { return len(t.order) }

// Each calls fn for every species in first-seen order.
func (t *Table) Each(fn func(species string, r *reaction.Reaction)) {
	for _, sp := range t.order {
		fn(sp, t.entries[sp])
	}
}

// shouldUpdate is true when species has no entry yet or candidate was selected
// strictly more often. Equal frequencies keep the earlier reaction.
func (t *Table) shouldUpdate(species string, candidate *reaction.Reaction) bool {
	current, ok := t.entries[species]
	if !ok {
		return true
	}
	return candidate.SelectionFreq > current.SelectionFreq
}

func (t *Table) offer(species string, candidate *reaction.Reaction) {
	if !t.shouldUpdate(species, candidate) {
		return
	}
	if _, ok := t.entries[species]; !ok {
		t.order = append(t.order, species)
	}
	t.entries[species] = candidate
}

// Select builds the top-reaction table for role. Reactions are visited in
// table order and each species occurrence is offered once; the input table
// is left untouched. An invalid role yields an empty table.
func Select(table *reaction.Table, role reaction.Role) *Table {
	top := newTable(role)
	if !role.Valid() {
		return top
	}
	table.Each(func(r *reaction.Reaction) {
		for _, species := range r.Species(role) {
			top.offer(species, r)
		}
	})
	return top
}

// SelectRole is Select with role validation.
func SelectRole(table *reaction.Table, role reaction.Role) (*Table, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("toprxn: role %q: %w", role, internalerr.ErrInvalidInput)
	}
	return Select(table, role), nil
}

// FormationReactions is Select for the product role.
func FormationReactions(table *reaction.Table) *Table {
	return Select(table, reaction.RoleProduct)
}

// ReactantReactions is Select for the reactant role.
func ReactantReactions(table *reaction.Table) *Table {
	return Select(table, reaction.RoleReactant)
}
