package classify

import (
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

// Top-level branches and molecularity tags.
const (
	BranchIonization = "ionization"
	BranchChemical   = "chemical"

	Unimolecular = "unimolecular"
	Bimolecular  = "bimolecular"
	Termolecular = "termolecular"
)

// Ionization tags.
const (
	TagPositiveIonization   = "positive_ionization"
	TagElectronAttachment   = "electron_attachment"
	TagElectronCationRecomb = "electron_cation_recombination"
	TagAttachOrRecombine    = "attachment_or_recombination"
)

// Chemical tags.
const (
	TagFragmentation = "fragmentation"
	TagIsomerization = "isomerization"
	TagCombination   = "combination"
	TagByproduct     = "byproduct"
)

// IonizationPredicates decide whether and how a reaction involves electrons
// or charge-state changes.
type IonizationPredicates interface {
	IsIonization(r *reaction.Reaction) bool
	BroadIonizationTag(r *reaction.Reaction) string
	// NarrowIonizationTag resolves TagAttachOrRecombine using the rest of
	// the network.
	NarrowIonizationTag(r *reaction.Reaction, population []*reaction.Reaction) string
}

// ChemicalPredicates tag ordinary bond-rearrangement reactions.
type ChemicalPredicates interface {
	ChemicalTag(r *reaction.Reaction) string
}

// ChargeRules is the default predicate set. It works from species
// identifiers alone: electron tokens and the charges encoded in the ids.
type ChargeRules struct {
	electrons map[string]struct{}
}

// DefaultElectronTokens are the identifiers treated as a free electron.
var DefaultElectronTokens = []string{"e-", "electron"}

// NewChargeRules builds rules with the given electron tokens, or the
// defaults when none are given.
func NewChargeRules(electronTokens ...string) *ChargeRules {
	if len(electronTokens) == 0 {
		electronTokens = DefaultElectronTokens
	}
	set := make(map[string]struct{}, len(electronTokens))
	for _, tok := range electronTokens {
		set[tok] = struct{}{}
	}
	return &ChargeRules{electrons: set}
}

func (c *ChargeRules) isElectron(species string) bool {
	_, ok := c.electrons[species]
	return ok
}

func (c *ChargeRules) countElectrons(species []string) int {
	n := 0
	for _, sp := range species {
		if c.isElectron(sp) {
			n++
		}
	}
	return n
}

// netCharge sums the charges of the non-electron species. known is false
// when any of them has no decodable charge.
func (c *ChargeRules) netCharge(species []string) (total int, known bool) {
	known = true
	for _, sp := range species {
		if c.isElectron(sp) {
			continue
		}
		s := ParseSpecies(sp)
		if !s.ChargeKnown {
			known = false
			continue
		}
		total += s.Charge
	}
	return total, known
}

// IsIonization implements IonizationPredicates.
func (c *ChargeRules) IsIonization(r *reaction.Reaction) bool {
	if c.countElectrons(r.Reactants) > 0 || c.countElectrons(r.Products) > 0 {
		return true
	}
	lhs, lok := c.netCharge(r.Reactants)
	rhs, rok := c.netCharge(r.Products)
	return lok && rok && lhs != rhs
}

// BroadIonizationTag implements IonizationPredicates. With electron tokens
// the tag follows the side the electron is on. Without them it follows the
// net charge: a rise is a positive ionization, a drop is a capture whose kind
// depends on the charge of the reactants that took the electron.
func (c *ChargeRules) BroadIonizationTag(r *reaction.Reaction) string {
	in := c.countElectrons(r.Reactants)
	out := c.countElectrons(r.Products)

	switch {
	case out > in:
		return TagPositiveIonization
	case in > out:
		return c.captureTag(r)
	}

	lhs, _ := c.netCharge(r.Reactants)
	rhs, _ := c.netCharge(r.Products)
	if rhs > lhs {
		return TagPositiveIonization
	}
	return c.captureTag(r)
}

// captureTag tags an electron capture from the charges of the non-electron
// reactants: all positive is a recombination, none positive an attachment.
// Unknown charges, or positive and non-positive reactants together, leave the
// capturing species undecided.
func (c *ChargeRules) captureTag(r *reaction.Reaction) string {
	positive, other := 0, 0
	for _, sp := range r.Reactants {
		if c.isElectron(sp) {
			continue
		}
		s := ParseSpecies(sp)
		if !s.ChargeKnown {
			return TagAttachOrRecombine
		}
		if s.Charge > 0 {
			positive++
		} else {
			other++
		}
	}
	switch {
	case positive > 0 && other == 0:
		return TagElectronCationRecomb
	case positive == 0 && other > 0:
		return TagElectronAttachment
	}
	return TagAttachOrRecombine
}

// isPositiveIonization reports whether r releases an electron, either as an
// electron token or as a rise in net charge.
func (c *ChargeRules) isPositiveIonization(r *reaction.Reaction) bool {
	in := c.countElectrons(r.Reactants)
	out := c.countElectrons(r.Products)
	if out != in {
		return out > in
	}
	lhs, lok := c.netCharge(r.Reactants)
	rhs, rok := c.netCharge(r.Products)
	return lok && rok && rhs > lhs
}

// NarrowIonizationTag implements IonizationPredicates. An electron capture is
// a recombination when one of its reactants is produced by a positive
// ionization elsewhere in the network, an attachment otherwise.
func (c *ChargeRules) NarrowIonizationTag(r *reaction.Reaction, population []*reaction.Reaction) string {
	partners := make(map[string]struct{})
	for _, sp := range r.Reactants {
		if !c.isElectron(sp) {
			partners[sp] = struct{}{}
		}
	}

	for _, other := range population {
		if other == r || !c.isPositiveIonization(other) {
			continue
		}
		for _, p := range other.Products {
			if _, ok := partners[p]; ok {
				return TagElectronCationRecomb
			}
		}
	}
	return TagElectronAttachment
}

// ChemicalTag implements ChemicalPredicates from reactant and product counts.
func (c *ChargeRules) ChemicalTag(r *reaction.Reaction) string {
	products := len(r.Products)
	switch Molecularity(r) {
	case Unimolecular:
		if products > 1 {
			return TagFragmentation
		}
		return TagIsomerization
	default:
		if products == 1 {
			return TagCombination
		}
		return TagByproduct
	}
}

// Molecularity names the reactant count of r.
func Molecularity(r *reaction.Reaction) string {
	switch len(r.Reactants) {
	case 0, 1:
		return Unimolecular
	case 2:
		return Bimolecular
	default:
		return Termolecular
	}
}
