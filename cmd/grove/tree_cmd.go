package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pbanos/grove/store"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	modelInput string
	modelID    string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	tcc := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the trees of a model",
		Long:  `Print the tree of a decision tree model, or every tree of an ensemble`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := commandContext()
			defer cancel()
			exitOnError(tcc.Validate(), 1)
			m, err := tcc.loadModel(ctx, tcc.modelInput, tcc.modelID)
			exitOnError(err, 3)
			exitOnError(printTrees(os.Stdout, m), 4)
		},
	}
	cmd.PersistentFlags().StringVarP(&(tcc.modelInput), "model", "t", "", "path to a file from which the model to show will be read and parsed as JSON, or a redis URL where it is stored (required)")
	cmd.PersistentFlags().StringVar(&(tcc.modelID), "model-id", "", "id of the model when it is stored on redis")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	return nil
}

func printTrees(w io.Writer, m *store.Model) error {
	trees, err := m.Trees()
	if err != nil {
		return err
	}
	for i, t := range trees {
		if len(trees) > 1 {
			if _, err = fmt.Fprintf(w, "Tree %d:\n", i); err != nil {
				return err
			}
		}
		err = t.PrintTree(w)
		if err != nil {
			return err
		}
	}
	return nil
}
