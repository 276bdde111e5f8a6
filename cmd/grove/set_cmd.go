package main

import (
	"fmt"

	"github.com/pbanos/grove/dataset/yaml"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput      string
	metadataInput string
	setOutput     string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Copy the samples of a set of data into another, to move them between CSV files and SQLite3, PostgreSQL or MongoDB databases`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fatal(1, err)
			}
			config.Logf("Reading columns from metadata at %s...", config.metadataInput)
			columns, err := yaml.ReadColumnsFromFile(config.metadataInput)
			if err != nil {
				fatal(2, err)
			}
			in, out := source(config.setInput), source(config.setOutput)
			config.Logf("Reading samples from %s...", in)
			t, err := in.ReadTable(config.Context(), columns)
			if err != nil {
				fatal(3, err)
			}
			config.Logf("Writing %d samples to %s...", t.Len(), out)
			err = out.WriteTable(config.Context(), t)
			if err != nil {
				fatal(4, err)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the samples to copy (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to an output CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to copy the samples to (defaults to STDOUT, as CSV)")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.setInput == scc.setOutput && scc.setInput != "" {
		return fmt.Errorf("input and output must be different")
	}
	return nil
}
