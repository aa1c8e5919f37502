package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store"
)

// Store is an in-memory implementation of store.Store for tests and
// one-shot runs that do not archive.
type Store struct {
	mu         sync.RWMutex
	runs       map[string]store.Run
	classified map[string][]reaction.Reaction
	top        map[string]map[reaction.Role][]store.TopEntry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:       make(map[string]store.Run),
		classified: make(map[string][]reaction.Reaction),
		top:        make(map[string]map[reaction.Role][]store.TopEntry),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// CreateRun records a run. Run ids must be unique.
func (s *Store) CreateRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("create run: empty id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[r.ID]; ok {
		return fmt.Errorf("create run %s: already exists: %w", r.ID, internalerr.ErrInvalidInput)
	}
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	return r, ok, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) requireRun(id string) error {
	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return nil
}

// PutClassified appends reactions to a run's archive.
func (s *Store) PutClassified(ctx context.Context, runID string, rs []*reaction.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRun(runID); err != nil {
		return err
	}
	for _, r := range rs {
		s.classified[runID] = append(s.classified[runID], store.CloneReaction(*r))
	}
	return nil
}

// GetClassified returns a run's classified reactions.
func (s *Store) GetClassified(ctx context.Context, runID string) ([]reaction.Reaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireRun(runID); err != nil {
		return nil, err
	}
	rs := s.classified[runID]
	out := make([]reaction.Reaction, len(rs))
	for i, r := range rs {
		out[i] = store.CloneReaction(r)
	}
	return out, nil
}

// PutTopReactions replaces the top table of role for a run.
func (s *Store) PutTopReactions(ctx context.Context, runID string, role reaction.Role, entries []store.TopEntry) error {
	if !role.Valid() {
		return fmt.Errorf("role %q: %w", role, internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRun(runID); err != nil {
		return err
	}
	cp := make([]store.TopEntry, len(entries))
	for i, e := range entries {
		cp[i] = store.TopEntry{Species: e.Species, Reaction: store.CloneReaction(e.Reaction)}
	}
	if s.top[runID] == nil {
		s.top[runID] = make(map[reaction.Role][]store.TopEntry)
	}
	s.top[runID][role] = cp
	return nil
}

// GetTopReactions returns the top table of role for a run.
func (s *Store) GetTopReactions(ctx context.Context, runID string, role reaction.Role) ([]store.TopEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireRun(runID); err != nil {
		return nil, err
	}
	entries := s.top[runID][role]
	out := make([]store.TopEntry, len(entries))
	for i, e := range entries {
		out[i] = store.TopEntry{Species: e.Species, Reaction: store.CloneReaction(e.Reaction)}
	}
	return out, nil
}
