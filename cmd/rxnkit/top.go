package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
	"github.com/cognicore/rxnkit/pkg/rxnkit/workflow"
)

type topOptions struct {
	FreqPath     string
	ReactionPath string
	Start        int
	End          int
	Role         string
	StorePath    string
	JSON         bool
}

func newTopCmd() *cobra.Command {
	opts := &topOptions{}
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Select the most frequent reaction per species from a Kinetiscope run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.FreqPath, "freq", "", "selection frequency file")
	f.StringVar(&opts.ReactionPath, "reactions", "", "reaction definition file")
	f.IntVar(&opts.Start, "start", 0, "first frequency line, 1-based")
	f.IntVar(&opts.End, "end", 0, "last frequency line, inclusive (0 reads to the end)")
	f.StringVar(&opts.Role, "role", string(reaction.RoleProduct), "species role: product or reactant")
	f.StringVar(&opts.StorePath, "store", "", "SQLite results archive")
	f.BoolVar(&opts.JSON, "json", false, "print JSON instead of a table")
	return cmd
}

func runTop(cmd *cobra.Command, opts *topOptions) error {
	e, err := getEnv(cmd)
	if err != nil {
		return err
	}
	k := e.Components.Workflow.Kinetiscope
	if !cmd.Flags().Changed("freq") {
		opts.FreqPath = k.SelectFreqFile
	}
	if !cmd.Flags().Changed("reactions") {
		opts.ReactionPath = k.ReactionFile
	}
	start, end := e.Components.Workflow.LineRange()
	if cmd.Flags().Changed("start") {
		start = opts.Start
	}
	if cmd.Flags().Changed("end") && opts.End > 0 {
		end = opts.End
	}
	if opts.FreqPath == "" || opts.ReactionPath == "" {
		return fmt.Errorf("--freq and --reactions are required")
	}
	if !cmd.Flags().Changed("store") {
		opts.StorePath = e.Components.Workflow.StorePath
	}

	st, cleanup, err := openStore(cmd.Context(), opts.StorePath)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := workflow.Top(cmd.Context(), workflow.TopOptions{
		SelectFreqPath: opts.FreqPath,
		ReactionPath:   opts.ReactionPath,
		StartLine:      start,
		EndLine:        end,
		Role:           reaction.Role(opts.Role),
		Logger:         e.Logger,
		Store:          st,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	entries := workflow.Entries(res.Table)
	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SPECIES\tINDEX\tFREQUENCY\tREACTION")
	for _, en := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\n", en.Species, en.Reaction.Index, en.Reaction.SelectionFreq, en.Reaction.Equation())
	}
	return tw.Flush()
}
