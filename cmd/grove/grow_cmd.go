package main

import (
	"context"
	"fmt"

	"github.com/pbanos/grove/config"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/ensemble"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput   string
	table       string
	output      string
	configInput string
	overrides   config.Config
	randomState int64
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	gcc := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a model from a set of data",
		Long:  `Grow a decision tree, a random forest or a bagging ensemble of trees from a set of data to predict its label feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := commandContext()
			defer cancel()
			exitOnError(gcc.validateMetadata(), 1)
			cfg, err := gcc.Config(cmd.Flags())
			exitOnError(err, 1)
			schema, err := gcc.Schema()
			exitOnError(err, 2)
			X, y, err := gcc.readSamples(ctx, gcc.dataInput, gcc.table, schema)
			exitOnError(err, 3)
			gcc.Logf("Growing %s from a set with %d samples and %d features to predict %s ...", cfg.Model, len(X), len(schema.Features), schema.Label.Name())
			m, err := gcc.grow(ctx, cfg, schema, X, y)
			exitOnError(err, 4)
			gcc.Logf("Done")
			location, err := gcc.saveModel(ctx, gcc.output, m)
			exitOnError(err, 5)
			gcc.Logger().Infof("%s model written to %s", m.Kind, location)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&(gcc.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the model (defaults to STDIN, interpreted as CSV)")
	flags.StringVar(&(gcc.table), "table", "", "name of the table or collection with the samples when the input is a database (defaults to samples)")
	flags.StringVarP(&(gcc.output), "output", "o", "", "path to a file to which the model will be written in JSON format, or a redis URL to store it on (defaults to STDOUT)")
	flags.StringVarP(&(gcc.configInput), "config", "c", "", "path to a YML file with the options to grow the model")
	o := &gcc.overrides
	flags.StringVarP(&(o.Model), "kind", "k", config.TreeModel, "kind of model to grow: tree, forest or bagging")
	flags.IntVar(&(o.Tree.MaxDepth), "max-depth", 0, "maximum depth of trees (defaults to 0: no limit)")
	flags.IntVar(&(o.Tree.MinSamplesSplit), "min-samples-split", 0, "minimum number of samples a node needs to be split")
	flags.IntVar(&(o.Tree.MinSamplesLeaf), "min-samples-leaf", 0, "minimum number of samples on each side of a split")
	flags.Float64Var(&(o.Tree.MinInformationGain), "min-information-gain", 0, "minimum Gini gain of a split")
	flags.IntVar(&(o.Tree.MaxFeatures), "max-features", 0, "number of features drawn for every split (defaults to all of them for trees and their square root for forests)")
	flags.IntVar(&(o.Tree.Workers), "workers", 0, "number of nodes developed or ensemble members trained at the same time")
	flags.Int64Var(&(gcc.randomState), "random-state", 0, "seed for the random generator (defaults to a seed from the clock)")
	flags.IntVar(&(o.Ensemble.NumEstimators), "n-estimators", 0, "number of members of an ensemble (defaults to 10)")
	flags.Float64Var(&(o.Ensemble.MaxSamples), "max-samples", 0, "samples every member of an ensemble is trained on, as a fraction if not greater than 1 or a count otherwise (defaults to all of them)")
	flags.BoolVar(&(o.Ensemble.Bootstrap), "bootstrap", false, "draw the samples of ensemble members with replacement")
	return cmd
}

/*
Config returns the configuration to grow the model: the one on the
config file, if any, with the values of the flags set on the command
line overriding it.
*/
func (gcc *growCmdConfig) Config(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if gcc.configInput != "" {
		gcc.Logf("Reading options from %s...", gcc.configInput)
		var err error
		cfg, err = config.ReadFile(gcc.configInput)
		if err != nil {
			return nil, err
		}
	}
	o := &gcc.overrides
	overrides := map[string]func(){
		"kind":                 func() { cfg.Model = o.Model },
		"max-depth":            func() { cfg.Tree.MaxDepth = o.Tree.MaxDepth },
		"min-samples-split":    func() { cfg.Tree.MinSamplesSplit = o.Tree.MinSamplesSplit },
		"min-samples-leaf":     func() { cfg.Tree.MinSamplesLeaf = o.Tree.MinSamplesLeaf },
		"min-information-gain": func() { cfg.Tree.MinInformationGain = o.Tree.MinInformationGain },
		"max-features": func() {
			cfg.Tree.MaxFeatures = o.Tree.MaxFeatures
			cfg.Ensemble.MaxFeatures = o.Tree.MaxFeatures
		},
		"workers": func() {
			cfg.Tree.Workers = o.Tree.Workers
			cfg.Ensemble.Workers = o.Tree.Workers
		},
		"random-state": func() {
			rs := gcc.randomState
			cfg.Tree.RandomState = &rs
			cfg.Ensemble.RandomState = &rs
		},
		"n-estimators": func() { cfg.Ensemble.NumEstimators = o.Ensemble.NumEstimators },
		"max-samples":  func() { cfg.Ensemble.MaxSamples = o.Ensemble.MaxSamples },
		"bootstrap":    func() { cfg.Ensemble.Bootstrap = o.Ensemble.Bootstrap },
	}
	for name, override := range overrides {
		if flags.Changed(name) {
			override()
		}
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (gcc *growCmdConfig) grow(ctx context.Context, cfg *config.Config, schema *dataset.Schema, X [][]feature.Value, y []feature.Value) (*store.Model, error) {
	labels := schema.FeatureLabels()
	switch cfg.Model {
	case config.ForestModel:
		fo := cfg.Ensemble.ForestOptions(cfg.Tree.Options(labels))
		fo.Logger = gcc.GroveLogger()
		rf, err := ensemble.NewRandomForest(fo)
		if err != nil {
			return nil, err
		}
		err = rf.Fit(ctx, X, y)
		if err != nil {
			return nil, fmt.Errorf("growing the forest: %v", err)
		}
		cp, err := rf.ToJSON()
		if err != nil {
			return nil, err
		}
		return store.NewForestModel(cp)
	case config.BaggingModel:
		bo := cfg.Ensemble.BaggingOptions(cfg.Tree.Options(labels))
		bo.Logger = gcc.GroveLogger()
		bc, err := ensemble.NewBaggingClassifier(bo)
		if err != nil {
			return nil, err
		}
		err = bc.Fit(ctx, X, y)
		if err != nil {
			return nil, fmt.Errorf("growing the bagging ensemble: %v", err)
		}
		cp, err := bc.ToJSON()
		if err != nil {
			return nil, err
		}
		return store.NewForestModel(cp)
	}
	c := cfg.Tree.Classifier(labels, gcc.GroveLogger())
	err := c.Fit(ctx, X, y)
	if err != nil {
		return nil, fmt.Errorf("growing the tree: %v", err)
	}
	gcc.Logf("%v", c)
	return store.NewTreeModel(c)
}
