package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cognicore/rxnkit/internal/logging"
	"github.com/cognicore/rxnkit/pkg/rxnkit/pathway"
	"github.com/cognicore/rxnkit/pkg/rxnkit/workflow"
)

type classifyOptions struct {
	Phase1Dir string
	Phase2Dir string
	Output    string
	Threshold float64
	Top       int
	Order     string
	StorePath string
}

func newClassifyCmd() *cobra.Command {
	opts := &classifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify phase 1, high-frequency phase 2 and sink pathway reactions into one tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Phase1Dir, "p1", "", "phase 1 HiPRGen output directory")
	f.StringVar(&opts.Phase2Dir, "p2", "", "phase 2 HiPRGen output directory")
	f.StringVar(&opts.Output, "out", "", "output file (default: <p2>/"+workflow.DefaultOutputFile+")")
	f.Float64Var(&opts.Threshold, "threshold", workflow.DefaultFrequencyThreshold, "minimum phase 2 selection frequency")
	f.IntVar(&opts.Top, "top", pathway.DefaultTopN, "pathways kept per sink species (negative keeps all)")
	f.StringVar(&opts.Order, "order", pathway.OrderAscending.String(), "pathway order: ascending or frequency-desc")
	f.StringVar(&opts.StorePath, "store", "", "SQLite results archive")
	return cmd
}

func runClassify(cmd *cobra.Command, opts *classifyOptions) error {
	e, err := getEnv(cmd)
	if err != nil {
		return err
	}
	run := e.Components.RunOptions()
	flags := cmd.Flags()
	if flags.Changed("p1") {
		run.Phase1Dir = opts.Phase1Dir
	}
	if flags.Changed("p2") {
		run.Phase2Dir = opts.Phase2Dir
	}
	if flags.Changed("out") {
		run.OutputPath = opts.Output
	} else if out := e.Components.Workflow.OutputFile; out != "" && !filepath.IsAbs(out) {
		run.OutputPath = filepath.Join(run.Phase2Dir, out)
	}
	if flags.Changed("threshold") {
		run.FrequencyThreshold = opts.Threshold
	}
	if flags.Changed("top") {
		run.TopPathways = opts.Top
	}
	if flags.Changed("order") {
		order, err := pathway.ParseOrder(opts.Order)
		if err != nil {
			return err
		}
		run.PathwayOrder = order
	}
	storePath := e.Components.Workflow.StorePath
	if flags.Changed("store") {
		storePath = opts.StorePath
	}

	st, cleanup, err := openStore(cmd.Context(), storePath)
	if err != nil {
		return err
	}
	defer cleanup()
	run.Store = st
	run.Logger = e.Logger

	res, err := workflow.Run(cmd.Context(), run)
	if err != nil {
		return err
	}
	if res.Phase2Skipped {
		e.Logger.Warn("phase 2 reactions were not added", logging.String("dir", run.Phase2Dir))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d reactions classified (phase 1: %d, phase 2: %d, pathways: %d) -> %s\n",
		res.RunID, res.Tree.Count(), res.Phase1Added, res.Phase2Added, res.PathwayAdded, res.OutputPath)
	return nil
}
