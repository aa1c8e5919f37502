package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/rxnkit/pkg/rxnkit/testset"
)

func newTestsetCmd() *cobra.Command {
	var idsPath, dbPath, outPath string
	cmd := &cobra.Command{
		Use:   "testset",
		Short: "Copy requested molecule entries and their isomorphic charge variants into a test set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if idsPath == "" || dbPath == "" || outPath == "" {
				return fmt.Errorf("--ids, --db and --out are required")
			}
			e, err := getEnv(cmd)
			if err != nil {
				return err
			}
			rep, err := testset.NewGenerator(e.Logger.Named("testset")).Generate(cmd.Context(), idsPath, dbPath, outPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d requested, %d written, %d missing -> %s\n",
				rep.Requested, rep.Written, len(rep.Missing), outPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&idsPath, "ids", "", "file with one molecule id per line")
	f.StringVar(&dbPath, "db", "", "molecule database (JSON array of documents)")
	f.StringVar(&outPath, "out", "", "output test set file")
	return cmd
}
