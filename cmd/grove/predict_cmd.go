package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/grove/dataset/csv"
	"github.com/pbanos/grove/dataset/table"
	"github.com/pbanos/grove/dataset/yaml"
	"github.com/pbanos/grove/feature/column"
	"github.com/pbanos/grove/forest"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	forest        forestLocation
	metadataInput string
	labelColumn   string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the label of samples",
		Long:  `Use the loaded forest to predict the label of every sample read as CSV from STDIN, printing a prediction per line`,
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
			inputColumns := make([]table.Column, 0, len(columns)-1)
			for _, c := range columns {
				if c.Name != label.Name {
					inputColumns = append(inputColumns, c)
				}
			}
			f, err := config.forest.Load(config.Context(), inputColumns)
			if err != nil {
				fatal(4, err)
			}
			err = predict(os.Stdin, os.Stdout, f, inputColumns, label)
			if err != nil {
				fatal(5, err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the columns the forest was trained with (required)")
	cmd.PersistentFlags().StringVarP(&(config.labelColumn), "label", "c", "", "name of the column the forest predicts (required)")
	config.forest.addFlags(cmd.PersistentFlags(), "path to a file from which the forest will be read and parsed as JSON, or its ID when loading it from redis (required)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.forest.path == "" {
		return fmt.Errorf("required forest flag was not set")
	}
	if pcc.labelColumn == "" {
		return fmt.Errorf("required label flag was not set")
	}
	return nil
}

/*
predict reads samples as CSV rows over the given columns from r and writes
on w a line per sample with the prediction of the forest: the voted value
and its share of the votes for discrete labels, or the predicted value for
continuous ones.
*/
func predict(r io.Reader, w io.Writer, f *forest.Forest, columns []table.Column, label table.Column) error {
	positions := make([]int, len(columns))
	for i := range positions {
		positions[i] = i
	}
	g, err := column.NewGenerator(columns, positions, column.Single)
	if err != nil {
		return err
	}
	t := table.New(columns)
	return csv.ReadRows(r, columns, func(i int, row []float64) (bool, error) {
		if err := t.Append(row); err != nil {
			return false, err
		}
		eval := forest.EvaluatorFor(g, t, t.Len()-1)
		if label.Discrete() {
			value, share, err := f.Classify(eval)
			if err != nil {
				return false, fmt.Errorf("predicting sample %d: %v", i+1, err)
			}
			_, err = fmt.Fprintf(w, "%s %f\n", value, share)
			return err == nil, err
		}
		prediction, err := f.Regress(eval)
		if err != nil {
			return false, fmt.Errorf("predicting sample %d: %v", i+1, err)
		}
		values := make([]string, len(prediction))
		for j, v := range prediction {
			values[j] = label.Format(v)
		}
		_, err = fmt.Fprintln(w, strings.Join(values, " "))
		return err == nil, err
	})
}
