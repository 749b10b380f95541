package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature/yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootCmdConfig struct {
	verbose       bool
	metadataInput string
	labelFeature  string
	logger        *zap.SugaredLogger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "grove is a tool to grow decision tree classifiers and forests",
		Long:  `A tool to grow decision tree classifiers and ensembles of them from your data, test them, and use them to make predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress information")
	rootCmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the data")
	rootCmd.PersistentFlags().StringVarP(&(config.labelFeature), "label", "l", "", "name of the feature with the label of samples (defaults to the last feature on the metadata)")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(config),
		testCmd(config),
		predictCmd(config),
		treeCmd(config),
		splitCmd(config),
		setCmd(config),
	)
	return rootCmd
}

// Logger returns the logger of the command line, built on first use
func (rcc *rootCmdConfig) Logger() *zap.SugaredLogger {
	if rcc.logger == nil {
		rcc.logger = newLogger(rcc.verbose)
	}
	return rcc.logger
}

// Logf logs progress information, only shown on verbose mode
func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	rcc.Logger().Debugf(format, a...)
}

// GroveLogger returns the logger for the classifiers
func (rcc *rootCmdConfig) GroveLogger() grove.Logger {
	return grove.ZapLogger(rcc.Logger())
}

func (rcc *rootCmdConfig) validateMetadata() error {
	if rcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

// Schema reads the features on the metadata file and returns the schema
// they describe with the label feature
func (rcc *rootCmdConfig) Schema() (*dataset.Schema, error) {
	rcc.Logf("Reading features from metadata at %s...", rcc.metadataInput)
	features, err := yaml.ReadFeaturesFromFile(rcc.metadataInput)
	if err != nil {
		return nil, err
	}
	s, err := dataset.NewSchema(features, rcc.labelFeature)
	if err != nil {
		return nil, err
	}
	rcc.Logf("Features from metadata read: %v", s)
	return s, nil
}

// commandContext returns a context cancelled when the process is
// interrupted
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}

func exitOnError(err error, code int) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}
