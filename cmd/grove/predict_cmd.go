package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/inputsample"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/store"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	modelInput     string
	modelID        string
	dataInput      string
	table          string
	output         string
	undefinedValue string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	pcc := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the label of samples",
		Long: `Use the loaded model to predict the label of every sample on an input set, writing them with their predicted label,
or of a single sample answering questions about its features when no input is given`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := commandContext()
			defer cancel()
			exitOnError(pcc.Validate(), 1)
			schema, err := pcc.Schema()
			exitOnError(err, 2)
			m, err := pcc.loadModel(ctx, pcc.modelInput, pcc.modelID)
			exitOnError(err, 3)
			c, err := m.Classifier()
			exitOnError(err, 3)
			if pcc.dataInput == "" {
				prediction, err := pcc.predictInteractively(c, schema)
				exitOnError(err, 4)
				fmt.Printf("Predicted %s is %s\n", schema.Label.Name(), feature.Format(prediction))
				return
			}
			exitOnError(pcc.predictSet(ctx, c, schema), 4)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&(pcc.modelInput), "model", "t", "", "path to a file from which the model will be read and parsed as JSON, or a redis URL where it is stored (required)")
	flags.StringVar(&(pcc.modelID), "model-id", "", "id of the model when it is stored on redis")
	flags.StringVarP(&(pcc.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with samples without label (defaults to reading a single sample interactively)")
	flags.StringVar(&(pcc.table), "table", "", "name of the table or collection with the samples when the input is a database (defaults to samples)")
	flags.StringVarP(&(pcc.output), "output", "o", "", "path to a CSV file to which the samples will be written with their predicted labels (defaults to STDOUT)")
	flags.StringVarP(&(pcc.undefinedValue), "undefined-value", "u", dataset.UndefinedValue, "value to input to define a sample's value for a feature as undefined")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	return pcc.validateMetadata()
}

func (pcc *predictCmdConfig) predictInteractively(c store.Classifier, schema *dataset.Schema) (feature.Value, error) {
	r := inputsample.New(os.Stdin, inputsample.NewPrompter(os.Stdout, pcc.undefinedValue), pcc.undefinedValue)
	row, err := r.ReadRow(schema.Features)
	if err != nil {
		return nil, err
	}
	return c.PredictOne(row)
}

// predictSet writes every sample of the input with its predicted label,
// undefined for those that cannot be predicted
func (pcc *predictCmdConfig) predictSet(ctx context.Context, c store.Classifier, schema *dataset.Schema) error {
	unlabelled := &dataset.Schema{Features: schema.Features}
	X, _, err := pcc.readSamples(ctx, pcc.dataInput, pcc.table, unlabelled)
	if err != nil {
		return err
	}
	pcc.Logf("Predicting %s for %d samples...", schema.Label.Name(), len(X))
	y := make([]feature.Value, 0, len(X))
	failed := 0
	for i, row := range X {
		prediction, err := c.PredictOne(row)
		if err != nil {
			pcc.Logf("Cannot predict sample %d: %v", i, err)
			failed++
		}
		y = append(y, prediction)
	}
	pcc.Logf("Done, failed to make a prediction for %d samples", failed)
	w, err := pcc.openWriter(ctx, pcc.output, pcc.table, schema)
	if err != nil {
		return err
	}
	_, err = w.Write(ctx, X, y)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}
