package main

import (
	"fmt"

	"github.com/pbanos/grove/dataset/yaml"
	"github.com/spf13/cobra"
)

type showCmdConfig struct {
	*rootCmdConfig
	metadataInput string
	forest        forestLocation
}

func showCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &showCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a forest",
		Long:  `Print every tree of a forest with the feature and threshold of every split and the statistics of every leaf`,
		Run: func(cmd *cobra.Command, args []string) {
			if config.metadataInput == "" {
				fatal(1, fmt.Errorf("required metadata flag was not set"))
			}
			columns, err := yaml.ReadColumnsFromFile(config.metadataInput)
			if err != nil {
				fatal(2, err)
			}
			f, err := config.forest.Load(config.Context(), columns)
			if err != nil {
				fatal(3, err)
			}
			fmt.Print(f)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the columns the forest was trained with (required)")
	config.forest.addFlags(cmd.PersistentFlags(), "path to a file from which the forest will be read and parsed as JSON (defaults to STDIN), or its ID when loading it from redis")
	return cmd
}
