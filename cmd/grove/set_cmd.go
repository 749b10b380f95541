package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput    string
	inputTable  string
	setOutput   string
	outputTable string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	scc := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy a set of data",
		Long:  `Copy a set of data between CSV files, SQLite3 files, PostgreSQL databases and MongoDB databases`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := commandContext()
			defer cancel()
			exitOnError(scc.Validate(), 1)
			schema, err := scc.Schema()
			exitOnError(err, 2)
			X, y, err := scc.readSamples(ctx, scc.setInput, scc.inputTable, schema)
			exitOnError(err, 3)
			output, err := scc.openWriter(ctx, scc.setOutput, scc.outputTable, schema)
			exitOnError(err, 4)
			n, err := output.Write(ctx, X, y)
			if cerr := output.Close(); err == nil {
				err = cerr
			}
			exitOnError(err, 5)
			scc.Logf("Copied %d samples", n)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&(scc.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the set to copy (defaults to STDIN, interpreted as CSV)")
	flags.StringVar(&(scc.inputTable), "input-table", "", "name of the table or collection to read from databases (defaults to samples)")
	flags.StringVarP(&(scc.setOutput), "output", "o", "", "location to copy the set to (defaults to STDOUT, as CSV)")
	flags.StringVar(&(scc.outputTable), "output-table", "", "name of the table or collection to write to databases (defaults to samples)")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.setInput == scc.setOutput && scc.inputTable == scc.outputTable && scc.setInput != "" {
		return fmt.Errorf("input and output sets are the same")
	}
	return scc.validateMetadata()
}
