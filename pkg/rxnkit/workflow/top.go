package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cognicore/rxnkit/internal/logging"
	"github.com/cognicore/rxnkit/pkg/rxnkit/kinetiscope"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store"
	"github.com/cognicore/rxnkit/pkg/rxnkit/toprxn"
)

// TopOptions configures Top.
type TopOptions struct {
	SelectFreqPath string
	ReactionPath   string
	// StartLine and EndLine bound the frequency lines read, 1-based and
	// inclusive.
	StartLine int
	EndLine   int
	Role      reaction.Role

	Logger logging.Logger
	Store  store.Store
	Now    func() time.Time
}

// TopResult is a top reaction table and the id of its run.
type TopResult struct {
	RunID string
	Table *toprxn.Table
}

// Top builds the top reaction table of a Kinetiscope run and archives it
// when a store is configured.
func Top(ctx context.Context, opts TopOptions) (*TopResult, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := logging.OrNop(opts.Logger).Named("top")

	table, err := kinetiscope.LoadTable(opts.SelectFreqPath, opts.ReactionPath, opts.StartLine, opts.EndLine)
	if err != nil {
		return nil, err
	}
	top, err := toprxn.SelectRole(table, opts.Role)
	if err != nil {
		return nil, err
	}

	at := opts.Now()
	res := &TopResult{RunID: store.NewRunIDs().Next(at), Table: top}
	log.Info("top reactions selected",
		logging.String("run", res.RunID),
		logging.String("role", string(opts.Role)),
		logging.Int("reactions", table.Len()),
		logging.Int("species", top.Len()))

	if opts.Store == nil {
		return res, nil
	}
	params, err := json.Marshal(map[string]interface{}{
		"reaction_file": opts.ReactionPath,
		"start_line":    opts.StartLine,
		"end_line":      opts.EndLine,
		"role":          opts.Role,
	})
	if err != nil {
		return nil, err
	}
	run := store.Run{ID: res.RunID, Kind: store.KindTop, CreatedAt: at, Source: opts.SelectFreqPath, Params: string(params)}
	if err := opts.Store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("archive run: %w", err)
	}
	if err := opts.Store.PutTopReactions(ctx, res.RunID, opts.Role, Entries(top)); err != nil {
		return nil, fmt.Errorf("archive run: %w", err)
	}
	return res, nil
}

// Entries flattens a top table in species order.
func Entries(t *toprxn.Table) []store.TopEntry {
	out := make([]store.TopEntry, 0, t.Len())
	t.Each(func(species string, r *reaction.Reaction) {
		out = append(out, store.TopEntry{Species: species, Reaction: *r})
	})
	return out
}
