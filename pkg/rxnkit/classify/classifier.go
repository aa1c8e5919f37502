// Package classify places reactions in the ionization / chemical hierarchy.
//
// Classification runs in two passes. The first pass tags each reaction on
// its own. Electron captures whose partner charge cannot be read from the
// identifiers get the ambiguous TagAttachOrRecombine and are resolved by
// Narrow, which needs the whole population of reactions.
package classify

import (
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

// Classifier sequences the predicate calls; it holds no per-run state.
type Classifier struct {
	ion  IonizationPredicates
	chem ChemicalPredicates
}

// New returns a classifier using the given predicates. Nil predicates fall
// back to the default ChargeRules.
func New(ion IonizationPredicates, chem ChemicalPredicates) *Classifier {
	rules := NewChargeRules()
	if ion == nil {
		ion = rules
	}
	if chem == nil {
		chem = rules
	}
	return &Classifier{ion: ion, chem: chem}
}

// IsIonization reports which top-level branch r belongs to.
func (c *Classifier) IsIonization(r *reaction.Reaction) bool {
	return c.ion.IsIonization(r)
}

// Tag is the first-pass tag of r.
func (c *Classifier) Tag(r *reaction.Reaction) string {
	if c.ion.IsIonization(r) {
		return c.ion.BroadIonizationTag(r)
	}
	return c.chem.ChemicalTag(r)
}

// ChemicalTag tags r as a chemical reaction without the ionization check.
// Phase-2 reactions are always chemical.
func (c *Classifier) ChemicalTag(r *reaction.Reaction) string {
	return c.chem.ChemicalTag(r)
}

// Narrow runs the second pass over population, replacing every ambiguous
// ionization tag. It returns how many reactions were narrowed.
func (c *Classifier) Narrow(population []*reaction.Reaction) int {
	n := 0
	for _, r := range population {
		if r.Tag != TagAttachOrRecombine {
			continue
		}
		r.Tag = c.ion.NarrowIonizationTag(r, population)
		n++
	}
	return n
}

// Classify returns the path of r in the classification hierarchy:
//
//	["ionization", tag]
//	["chemical", molecularity, tag]
//
// The branch follows the reaction's tag, computing a first-pass tag when r
// has none. An ambiguous ionization tag is narrowed against population.
func (c *Classifier) Classify(r *reaction.Reaction, population []*reaction.Reaction) []string {
	tag := r.Tag
	if tag == "" {
		tag = c.Tag(r)
	}

	if IsIonizationTag(tag) {
		if tag == TagAttachOrRecombine {
			tag = c.ion.NarrowIonizationTag(r, population)
		}
		return []string{BranchIonization, tag}
	}
	return []string{BranchChemical, Molecularity(r), tag}
}

// Assign classifies every reaction in population and stores the path in
// ClassificationList. Paths already assigned are kept.
func (c *Classifier) Assign(population []*reaction.Reaction) {
	for _, r := range population {
		if len(r.ClassificationList) > 0 {
			continue
		}
		r.ClassificationList = c.Classify(r, population)
	}
}

// IsIonizationTag reports whether tag belongs to the ionization branch.
func IsIonizationTag(tag string) bool {
	switch tag {
	case TagPositiveIonization, TagElectronAttachment, TagElectronCationRecomb,
		TagAttachOrRecombine:
		return true
	}
	return false
}
