// Package store archives the results of rxnkit runs.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
)

// Store is the interface for persisting and querying run results.
type Store interface {
	Close() error

	// Runs
	CreateRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Classified reactions, in the order they were classified
	PutClassified(ctx context.Context, runID string, rs []*reaction.Reaction) error
	GetClassified(ctx context.Context, runID string) ([]reaction.Reaction, error)

	// Top reaction tables
	PutTopReactions(ctx context.Context, runID string, role reaction.Role, entries []TopEntry) error
	GetTopReactions(ctx context.Context, runID string, role reaction.Role) ([]TopEntry, error)
}

// Run kinds.
const (
	KindClassify = "classify"
	KindTop      = "top"
)

// Run describes one archived run.
type Run struct {
	ID        string
	Kind      string
	CreatedAt time.Time
	Source    string // input directory or file the run read
	Params    string // JSON-encoded settings
}

// TopEntry is one row of a top reaction table.
type TopEntry struct {
	Species  string            `json:"species"`
	Reaction reaction.Reaction `json:"reaction"`
}

// RunIDs hands out lexically sortable run identifiers.
type RunIDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewRunIDs creates a run id generator.
func NewRunIDs() *RunIDs {
	return &RunIDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new id stamped with t.
func (g *RunIDs) Next(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

// RunTime extracts the timestamp from a run id.
func RunTime(id string) (time.Time, bool) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(u.Time()), true
}

// CloneReaction returns a deep copy of r.
func CloneReaction(r reaction.Reaction) reaction.Reaction {
	r.Reactants = append([]string(nil), r.Reactants...)
	r.Products = append([]string(nil), r.Products...)
	if r.ClassificationList != nil {
		r.ClassificationList = append([]string(nil), r.ClassificationList...)
	}
	return r
}
