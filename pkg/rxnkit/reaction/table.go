package reaction

// Table maps reaction index to reaction and remembers insertion order.
type Table struct {
	order   []string
	byIndex map[string]*Reaction
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byIndex: make(map[string]*Reaction)}
}

// Put stores r under r.Index. An existing index keeps its position.
func (t *Table) Put(r *Reaction) {
	if _, ok := t.byIndex[r.Index]; !ok {
		t.order = append(t.order, r.Index)
	}
	t.byIndex[r.Index] = r
}

// Get looks up a reaction by index.
func (t *Table) Get(index string) (*Reaction, bool) {
	r, ok := t.byIndex[index]
	return r, ok
}

// Len returns the number of reactions.
func (t *Table) Len() int { return len(t.order) }

// Indices returns the indices in insertion order.
func (t *Table) Indices() []string {
	return append([]string(nil), t.order...)
}

// Reactions returns the reactions in insertion order.
func (t *Table) Reactions() []*Reaction {
	out := make([]*Reaction, 0, len(t.order))
	for _, idx := range t.order {
		out = append(out, t.byIndex[idx])
	}
	return out
}

// Each calls fn for every reaction in insertion order.
func (t *Table) Each(fn func(*Reaction)) {
	for _, idx := range t.order {
		fn(t.byIndex[idx])
	}
}
