package classify

import (
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

// Population is the deduplicated set of reactions selected for simulation,
// kept in the order they were added.
type Population struct {
	reactions []*reaction.Reaction
	names     map[string]struct{}
}

// NewPopulation creates an empty population.
func NewPopulation() *Population {
	return &Population{names: make(map[string]struct{})}
}

// AddIfNew tags r and adds it unless a reaction with the same Name was
// already added. It reports whether r was added.
func (p *Population) AddIfNew(r *reaction.Reaction, tag string) bool {
	name := r.Name()
	if _, seen := p.names[name]; seen {
		return false
	}
	r.Tag = tag
	p.names[name] = struct{}{}
	p.reactions = append(p.reactions, r)
	return true
}

// Contains reports whether a reaction with the same Name was added.
func (p *Population) Contains(r *reaction.Reaction) bool {
	_, ok := p.names[r.Name()]
	return ok
}

// Reactions returns the population in insertion order. The slice is shared
// with the population; callers must not append to it.
func (p *Population) Reactions() []*reaction.Reaction {
	return p.reactions
}

// Len returns the number of reactions added.
func (p *Population) Len() int { return len(p.reactions) }
