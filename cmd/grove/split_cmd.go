package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*rootCmdConfig
	setInput         string
	table            string
	setOutput        string
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	scc := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set, to train a model on one and test it against the other`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := commandContext()
			defer cancel()
			exitOnError(scc.Validate(), 1)
			schema, err := scc.Schema()
			exitOnError(err, 2)
			X, y, err := scc.readSamples(ctx, scc.setInput, scc.table, schema)
			exitOnError(err, 3)

			if !cmd.Flags().Changed("seed") {
				scc.seed = time.Now().UnixNano()
			}
			scc.Logf("Splitting input set with seed %d...", scc.seed)
			outputX, outputY, splitX, splitY := split(rand.New(rand.NewSource(scc.seed)), scc.splitProbability, X, y)

			output, err := scc.openWriter(ctx, scc.setOutput, scc.table, schema)
			exitOnError(err, 4)
			_, err = output.Write(ctx, outputX, outputY)
			exitOnError(err, 5)
			exitOnError(output.Close(), 5)

			splitOutput, err := scc.openWriter(ctx, scc.splitOutput, scc.table, schema)
			exitOnError(err, 6)
			_, err = splitOutput.Write(ctx, splitX, splitY)
			exitOnError(err, 7)
			exitOnError(splitOutput.Close(), 7)
			scc.Logf("Done")
			scc.Logf("Input set with %d samples was split into sets with %d and %d samples", len(X), len(outputX), len(splitX))
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&(scc.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the set to split (defaults to STDIN, interpreted as CSV)")
	flags.StringVar(&(scc.table), "table", "", "name of the table or collection with the samples for databases (defaults to samples)")
	flags.StringVarP(&(scc.setOutput), "output", "o", "", "location to dump the output set (defaults to STDOUT, as CSV)")
	flags.IntVarP(&(scc.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the set will be assigned to the split set")
	flags.StringVarP(&(scc.splitOutput), "split-output", "s", "", "location to dump the split set (required)")
	flags.Int64Var(&(scc.seed), "seed", 0, "seed for the random generator assigning samples (defaults to a seed from the clock)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return scc.validateMetadata()
}
