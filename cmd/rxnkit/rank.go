package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/rxnkit/pkg/rxnkit/hiprgen"
	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/pathway"
)

type rankedPathway struct {
	pathway.Record
	Equations []string `json:"equations"`
}

func newRankPathwaysCmd() *cobra.Command {
	var (
		reportPath string
		top        int
		orderName  string
	)
	cmd := &cobra.Command{
		Use:   "rank-pathways",
		Short: "Rank the pathways of a HiPRGen pathway report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reportPath == "" {
				return fmt.Errorf("--report is required")
			}
			order, err := pathway.ParseOrder(orderName)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(reportPath)
			if err != nil {
				return internalerr.FromOpen(reportPath, err)
			}
			rep, err := hiprgen.ParsePathwayReport(data)
			if err != nil {
				return internalerr.WithPath(reportPath, err)
			}

			ranked := pathway.Rank(rep.Pathways, top, order)
			out := make([]rankedPathway, 0, len(ranked))
			for _, rec := range ranked {
				rp := rankedPathway{Record: rec, Equations: make([]string, 0, len(rec.Reactions))}
				for _, idx := range rec.Reactions {
					r, ok := rep.Reactions.Get(idx)
					if !ok {
						return fmt.Errorf("%s: reaction %s: %w", reportPath, idx, internalerr.ErrMissingKey)
					}
					rp.Equations = append(rp.Equations, r.Equation())
				}
				out = append(out, rp)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&reportPath, "report", "", "pathway report (<species_index>_pathway.json)")
	f.IntVar(&top, "top", pathway.DefaultTopN, "pathways to keep (0 or negative keeps all)")
	f.StringVar(&orderName, "order", pathway.OrderAscending.String(), "ascending or frequency-desc")
	return cmd
}
