package reaction

import (
	"sort"
	"strings"
)

// Role selects which side of a reaction a species appears on.
type Role string

const (
	RoleReactant Role = "reactant"
	RoleProduct  Role = "product"
)

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	return r == RoleReactant || r == RoleProduct
}

// Reaction is one chemical transformation read from a network or simulation file.
// Index identifies it within its source file; the derived fields
// (SelectionFreq, ClassificationList, Tag) are filled in by later stages.
type Reaction struct {
	Index              string   `json:"index"`
	Reactants          []string `json:"reactants"`
	Products           []string `json:"products"`
	SelectionFreq      float64  `json:"selection_freq"`
	ClassificationList []string `json:"classification_list,omitempty"`
	Tag                string   `json:"tag,omitempty"`
	Phase              int      `json:"phase,omitempty"`
}

// New creates a reaction, copying the species slices.
func New(index string, reactants, products []string) *Reaction {
	return &Reaction{
		Index:     index,
		Reactants: append([]string(nil), reactants...),
		Products:  append([]string(nil), products...),
	}
}

// Species returns the species list for the given role.
func (r *Reaction) Species(role Role) []string {
	switch role {
	case RoleReactant:
		return r.Reactants
	case RoleProduct:
		return r.Products
	}
	return nil
}

// Name is the canonical signature of the reaction: the sorted reactant
// multiset and the sorted product multiset joined as "A + B => C".
// Reactions with equal names are duplicates.
func (r *Reaction) Name() string {
	return side(r.Reactants) + " => " + side(r.Products)
}

func side(species []string) string {
	sorted := append([]string(nil), species...)
	sort.Strings(sorted)
	return strings.Join(sorted, " + ")
}

// Equation renders the reaction in its original species order.
func (r *Reaction) Equation() string {
	return strings.Join(r.Reactants, " + ") + " => " + strings.Join(r.Products, " + ")
}

func (r *Reaction) String() string {
	return r.Index + ": " + r.Equation()
}
