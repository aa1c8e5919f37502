// Package workflow runs the reaction classification pipeline: phase-1
// reactions, high-frequency phase-2 reactions and the reactions of the
// best pathways to each sink species, classified into one tree.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cognicore/rxnkit/internal/logging"
	"github.com/cognicore/rxnkit/pkg/rxnkit/classify"
	"github.com/cognicore/rxnkit/pkg/rxnkit/hiprgen"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/pathway"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store"
	"github.com/cognicore/rxnkit/pkg/rxnkit/tree"
)

// Defaults.
const (
	DefaultOutputFile         = "HiPRGen_rxns_to_name_full.json"
	DefaultFrequencyThreshold = 500
)

// Options configures Run. Phase1Dir and Phase2Dir are required.
type Options struct {
	Phase1Dir string
	Phase2Dir string
	// OutputPath defaults to DefaultOutputFile inside Phase2Dir.
	OutputPath string

	FrequencyThreshold float64
	// TopPathways per sink species; 0 means pathway.DefaultTopN, negative
	// keeps every pathway.
	TopPathways  int
	PathwayOrder pathway.Order

	Classifier  *classify.Classifier
	TreeOptions []tree.Option
	Logger      logging.Logger
	// Store archives the run when set.
	Store store.Store
	// Now stamps the run id; defaults to time.Now.
	Now func() time.Time
}

// Result describes a finished run.
type Result struct {
	RunID      string
	OutputPath string
	Population []*reaction.Reaction
	Tree       *tree.Tree

	Phase1Added  int
	Narrowed     int
	Phase2Added  int
	PathwayAdded int
	// Phase2Skipped is set when the phase 2 tally could not be read.
	Phase2Skipped bool
	// SinkWalkSkipped is set when the phase 2 directory does not exist.
	SinkWalkSkipped bool
}

func (o *Options) setDefaults() {
	if o.OutputPath == "" {
		o.OutputPath = filepath.Join(o.Phase2Dir, DefaultOutputFile)
	}
	if o.TopPathways == 0 {
		o.TopPathways = pathway.DefaultTopN
	}
	if o.Classifier == nil {
		o.Classifier = classify.New(nil, nil)
	}
	o.Logger = logging.OrNop(o.Logger)
	if o.Now == nil {
		o.Now = time.Now
	}
}

func (o *Options) validate() error {
	if o.Phase1Dir == "" {
		return fmt.Errorf("phase 1 directory not set: %w", internalerr.ErrInvalidInput)
	}
	if o.Phase2Dir == "" {
		return fmt.Errorf("phase 2 directory not set: %w", internalerr.ErrInvalidInput)
	}
	if o.FrequencyThreshold < 0 {
		return fmt.Errorf("frequency threshold %v: %w", o.FrequencyThreshold, internalerr.ErrInvalidInput)
	}
	return nil
}

// Run executes the pipeline and writes the classification tree to
// opts.OutputPath.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()

	start := opts.Now()
	runID := store.NewRunIDs().Next(start)
	log := opts.Logger.Named("workflow").With(logging.String("run", runID))
	res := &Result{RunID: runID, OutputPath: opts.OutputPath}

	pop := classify.NewPopulation()
	n, err := AddPhase1Reactions(pop, opts.Classifier, opts.Phase1Dir)
	if err != nil {
		return nil, err
	}
	res.Phase1Added = n
	res.Narrowed = opts.Classifier.Narrow(pop.Reactions())
	log.Info("phase 1 reactions added", logging.Int("added", n), logging.Int("narrowed", res.Narrowed))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err = AddHighFrequencyReactions(pop, opts.Classifier, opts.Phase2Dir, opts.FrequencyThreshold, log)
	res.Phase2Added = n
	res.Phase2Skipped = err != nil

	if info, err := os.Stat(opts.Phase2Dir); err != nil || !info.IsDir() {
		res.SinkWalkSkipped = true
		log.Warn("phase 2 directory unavailable; skipping sink pathways", logging.String("dir", opts.Phase2Dir))
	} else {
		n, err := AddSinkPathwayReactions(ctx, pop, opts.Classifier, opts.Phase2Dir, opts.TopPathways, opts.PathwayOrder)
		if err != nil {
			return nil, err
		}
		res.PathwayAdded = n
		log.Info("sink pathway reactions added", logging.Int("added", n))
	}

	opts.Classifier.Assign(pop.Reactions())
	t := tree.New(opts.TreeOptions...)
	for _, r := range pop.Reactions() {
		if err := t.Insert(r); err != nil {
			return nil, err
		}
	}
	res.Tree = t
	res.Population = pop.Reactions()

	if err := WriteTree(opts.OutputPath, t); err != nil {
		return nil, err
	}
	log.Info("classification written",
		logging.String("path", opts.OutputPath),
		logging.Int("reactions", t.Count()),
		logging.Duration("elapsed", opts.Now().Sub(start)))

	if opts.Store != nil {
		if err := archive(ctx, opts, runID, start, res.Population); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// AddPhase1Reactions tags every reaction of the phase-1 tally and adds the
// new ones to pop. Ionization reactions get a broad ionization tag, others
// a chemical tag. Failures are fatal.
func AddPhase1Reactions(pop *classify.Population, c *classify.Classifier, dir string) (int, error) {
	tally, err := hiprgen.LoadTally(dir, 1)
	if err != nil {
		return 0, fmt.Errorf("phase 1: %w", err)
	}
	added := 0
	tally.Reactions.Each(func(r *reaction.Reaction) {
		if pop.AddIfNew(r, c.Tag(r)) {
			added++
		}
	})
	return added, nil
}

// AddHighFrequencyReactions adds every phase-2 reaction that fired at least
// threshold times, tagged as a chemical reaction. A tally without reactions
// adds nothing. A tally that cannot be read is logged and reported through
// the error; pop is left unchanged in that case.
func AddHighFrequencyReactions(pop *classify.Population, c *classify.Classifier, dir string, threshold float64, log logging.Logger) (int, error) {
	log = logging.OrNop(log)
	tally, err := hiprgen.LoadTally(dir, 2)
	if errors.Is(err, hiprgen.ErrNoReactions) {
		log.Warn("phase 2 tally lists no reactions", logging.String("dir", dir))
		return 0, nil
	}
	if err != nil {
		var missing *internalerr.MissingFileError
		if errors.As(err, &missing) {
			log.Error("phase 2 directory or tally missing; skipping", logging.String("dir", dir), logging.Err(err))
		} else {
			log.Error("phase 2 tally unreadable; skipping", logging.String("dir", dir), logging.Err(err))
		}
		return 0, err
	}

	added := 0
	tally.Reactions.Each(func(r *reaction.Reaction) {
		if r.SelectionFreq < threshold {
			return
		}
		if pop.AddIfNew(r, c.ChemicalTag(r)) {
			added++
		}
	})
	log.Info("high-frequency phase 2 reactions added",
		logging.String("dir", dir),
		logging.Float64("threshold", threshold),
		logging.Int("added", added))
	return added, nil
}

// AddSinkPathwayReactions walks the sink report in dir. For each sink
// species it ranks the pathways of its pathway report, keeps the first top
// and adds every reaction on them as a chemical phase-2 reaction. A pathway
// step missing from the report's reactions is fatal.
func AddSinkPathwayReactions(ctx context.Context, pop *classify.Population, c *classify.Classifier, dir string, top int, order pathway.Order) (int, error) {
	sinks, err := hiprgen.LoadSinkReport(dir)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, sink := range sinks {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		rep, err := hiprgen.LoadPathwayReport(dir, sink.SpeciesIndex)
		if err != nil {
			return added, fmt.Errorf("sink %s: %w", sink.Key, err)
		}
		for _, idx := range pathway.Reactions(pathway.Rank(rep.Pathways, top, order)) {
			src, ok := rep.Reactions.Get(idx)
			if !ok {
				return added, fmt.Errorf("sink %s: %s: reaction %s: %w",
					sink.Key, hiprgen.PathwayFile(sink.SpeciesIndex), idx, internalerr.ErrMissingKey)
			}
			r := reaction.New(src.Index, src.Reactants, src.Products)
			r.Phase = 2
			if pop.AddIfNew(r, c.ChemicalTag(r)) {
				added++
			}
		}
	}
	return added, nil
}

// WriteTree writes the tree as indented JSON.
func WriteTree(path string, t *tree.Tree) error {
	raw, err := t.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode classification: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("encode classification: %w", err)
	}
	buf.WriteByte('\n')
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type runParams struct {
	Phase2Dir          string  `json:"phase2_dir"`
	OutputPath         string  `json:"output_path"`
	FrequencyThreshold float64 `json:"frequency_threshold"`
	TopPathways        int     `json:"top_pathways"`
	PathwayOrder       string  `json:"pathway_order"`
}

func archive(ctx context.Context, opts Options, runID string, at time.Time, rs []*reaction.Reaction) error {
	params, err := json.Marshal(runParams{
		Phase2Dir:          opts.Phase2Dir,
		OutputPath:         opts.OutputPath,
		FrequencyThreshold: opts.FrequencyThreshold,
		TopPathways:        opts.TopPathways,
		PathwayOrder:       opts.PathwayOrder.String(),
	})
	if err != nil {
		return err
	}
	run := store.Run{ID: runID, Kind: store.KindClassify, CreatedAt: at, Source: opts.Phase1Dir, Params: string(params)}
	if err := opts.Store.CreateRun(ctx, run); err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	if err := opts.Store.PutClassified(ctx, runID, rs); err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	return nil
}
