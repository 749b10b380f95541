package main

import (
	"fmt"

	"github.com/pbanos/grove"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	modelInput string
	modelID    string
	dataInput  string
	table      string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	tcc := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a model",
		Long:  `Test the performance of a model against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := commandContext()
			defer cancel()
			exitOnError(tcc.Validate(), 1)
			schema, err := tcc.Schema()
			exitOnError(err, 2)
			m, err := tcc.loadModel(ctx, tcc.modelInput, tcc.modelID)
			exitOnError(err, 3)
			c, err := m.Classifier()
			exitOnError(err, 3)
			X, y, err := tcc.readSamples(ctx, tcc.dataInput, tcc.table, schema)
			exitOnError(err, 4)
			tcc.Logf("Testing %s model against testset with %d samples...", m.Kind, len(X))
			successRate, errorCount, err := grove.Test(ctx, c, X, y)
			if err != nil {
				exitOnError(fmt.Errorf("testing model: %v", err), 5)
			}
			tcc.Logf("Done")
			fmt.Printf("%f success rate, failed to make a prediction for %d samples\n", successRate, errorCount)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&(tcc.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the model against (defaults to STDIN, interpreted as CSV)")
	flags.StringVar(&(tcc.table), "table", "", "name of the table or collection with the samples when the input is a database (defaults to samples)")
	flags.StringVarP(&(tcc.modelInput), "model", "t", "", "path to a file from which the model to test will be read and parsed as JSON, or a redis URL where it is stored (required)")
	flags.StringVar(&(tcc.modelID), "model-id", "", "id of the model when it is stored on redis")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	return tcc.validateMetadata()
}
