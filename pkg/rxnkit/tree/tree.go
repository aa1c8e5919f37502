// Package tree aggregates classified reactions into a nested tag tree whose
// leaves are lists of reactions.
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

type kind int

const (
	branch kind = iota
	leaf
)

type node struct {
	kind      kind
	order     []string
	children  map[string]*node
	reactions []*reaction.Reaction
}

func newBranch() *node {
	return &node{kind: branch, children: make(map[string]*node)}
}

// Tree is a classification tree. Branches are created on first use; a tag
// that names a leaf cannot later name a branch at the same position, and the
// other way round.
type Tree struct {
	root  *node
	vocab map[string]struct{}
	count int
}

// Option configures a Tree.
type Option func(*Tree)

// WithVocabulary restricts the tags that may appear in a path.
func WithVocabulary(tags ...string) Option {
	return func(t *Tree) {
		if len(tags) == 0 {
			return
		}
		t.vocab = make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			t.vocab[tag] = struct{}{}
		}
	}
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{root: newBranch()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Insert appends r to the leaf at r.ClassificationList.
func (t *Tree) Insert(r *reaction.Reaction) error {
	return t.InsertPath(r.ClassificationList, r)
}

// InsertPath appends r to the leaf at path, creating missing branches and
// the leaf itself. Existing entries are never replaced; inserting the same
// reaction twice leaves two entries.
func (t *Tree) InsertPath(path []string, r *reaction.Reaction) error {
	if len(path) == 0 {
		return fmt.Errorf("reaction %s: empty path: %w", r.Index, internalerr.ErrInvalidPath)
	}
	for _, tag := range path {
		if tag == "" {
			return fmt.Errorf("reaction %s: empty tag in %v: %w", r.Index, path, internalerr.ErrInvalidPath)
		}
		if t.vocab != nil {
			if _, ok := t.vocab[tag]; !ok {
				return fmt.Errorf("reaction %s: unknown tag %q in %v: %w", r.Index, tag, path, internalerr.ErrInvalidPath)
			}
		}
	}

	cur := t.root
	for i, tag := range path {
		want := branch
		if i == len(path)-1 {
			want = leaf
		}
		child, ok := cur.children[tag]
		if !ok {
			child = &node{kind: want}
			if want == branch {
				child.children = make(map[string]*node)
			}
			cur.children[tag] = child
			cur.order = append(cur.order, tag)
		} else if child.kind != want {
			return fmt.Errorf("reaction %s: %q is a %s at %s: %w",
				r.Index, tag, child.kind, strings.Join(path[:i+1], "/"), internalerr.ErrInvalidPath)
		}
		cur = child
	}

	cur.reactions = append(cur.reactions, r)
	t.count++
	return nil
}

func (k kind) String() string {
	if k == leaf {
		return "leaf"
	}
	return "branch"
}

// Leaf returns the reactions stored at path.
func (t *Tree) Leaf(path ...string) ([]*reaction.Reaction, bool) {
	cur := t.root
	for _, tag := range path {
		child, ok := cur.children[tag]
		if !ok {
			return nil, false
		}
		cur = child
	}
	if cur.kind != leaf {
		return nil, false
	}
	return cur.reactions, true
}

// Children returns the tags directly below path, in insertion order.
func (t *Tree) Children(path ...string) []string {
	cur := t.root
	for _, tag := range path {
		child, ok := cur.children[tag]
		if !ok {
			return nil
		}
		cur = child
	}
	return append([]string(nil), cur.order...)
}

// Count returns the total number of leaf entries.
func (t *Tree) Count() int { return t.count }

// Walk calls fn for every leaf in insertion order.
func (t *Tree) Walk(fn func(path []string, reactions []*reaction.Reaction)) {
	walk(t.root, nil, fn)
}

func walk(n *node, prefix []string, fn func([]string, []*reaction.Reaction)) {
	if n.kind == leaf {
		fn(append([]string(nil), prefix...), n.reactions)
		return
	}
	for _, tag := range n.order {
		walk(n.children[tag], append(prefix, tag), fn)
	}
}

// MarshalJSON writes the tree as nested objects with keys in insertion order
// and leaves as arrays of reactions.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, t.root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, n *node) error {
	if n.kind == leaf {
		reactions := n.reactions
		if reactions == nil {
			reactions = []*reaction.Reaction{}
		}
		b, err := json.Marshal(reactions)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}

	buf.WriteByte('{')
	for i, tag := range n.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tag)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := encode(buf, n.children[tag]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
