package main

import (
	"fmt"

	"github.com/pbanos/grove/dataset/table"
	"github.com/pbanos/grove/dataset/yaml"
	"github.com/pbanos/grove/feature/column"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	forest        forestLocation
	dataInput     string
	metadataInput string
	labelColumn   string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a forest",
		Long:  `Test the performance of a forest against a test data set: its accuracy for discrete labels, its root mean squared error for continuous ones`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fatal(1, err)
			}
			columns, err := yaml.ReadColumnsFromFile(config.metadataInput)
			if err != nil {
				fatal(2, err)
			}
			label, err := labelColumn(columns, config.labelColumn)
			if err != nil {
				fatal(3, err)
			}
			g, err := column.NewGenerator(columns, table.New(columns).Without(label.Name), column.Single)
			if err != nil {
				fatal(3, err)
			}
			f, err := config.forest.Load(config.Context(), columns)
			if err != nil {
				fatal(4, err)
			}
			src := source(config.dataInput)
			config.Logf("Reading testing set from %s...", src)
			ts, err := src.TrainingSet(config.Context(), columns, label.Name)
			if err != nil {
				fatal(5, err)
			}
			config.Logf("Testing forest against testing set with %d samples...", ts.Count())
			if label.Discrete() {
				accuracy, err := f.Accuracy(ts, g)
				if err != nil {
					fatal(6, fmt.Errorf("testing forest: %v", err))
				}
				fmt.Printf("%f accuracy over %d samples\n", accuracy, ts.Count())
				return
			}
			rmse, err := f.RMSE(ts, g)
			if err != nil {
				fatal(6, fmt.Errorf("testing forest: %v", err))
			}
			fmt.Printf("%f root mean squared error over %d samples\n", rmse, ts.Count())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the forest against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.labelColumn), "label", "c", "", "name of the column the forest predicts (required)")
	config.forest.addFlags(cmd.PersistentFlags(), "path to a file from which the forest to test will be read and parsed as JSON, or its ID when loading it from redis (required)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.forest.path == "" {
		return fmt.Errorf("required forest flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if tcc.labelColumn == "" {
		return fmt.Errorf("required label flag was not set")
	}
	return nil
}
