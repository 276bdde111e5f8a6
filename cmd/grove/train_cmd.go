package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/table"
	"github.com/pbanos/grove/dataset/yaml"
	"github.com/pbanos/grove/feature/column"
	"github.com/pbanos/grove/internal/metrics"
	"github.com/pbanos/grove/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type trainCmdConfig struct {
	*rootCmdConfig
	dataInput          string
	metadataInput      string
	labelColumn        string
	output             forestLocation
	trees              int
	depth              int
	features           int
	thresholds         int
	minSplit           int
	randomFeatures     bool
	explicitThresholds string
	quantiles          bool
	seed               uint64
	workers            int
	bagging            string
	featureKind        string
	estimator          string
	metricsAddr        string
}

func trainCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &trainCmdConfig{rootCmdConfig: rootConfig}
	defaults := grove.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a forest from a set of data",
		Long:  `Train a randomized decision forest from a set of data to predict a certain column.`,
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
			g, err := column.NewGenerator(columns, table.New(columns).Without(config.labelColumn), column.Kind(config.featureKind))
			if err != nil {
				fatal(3, err)
			}
			e, err := estimatorFor(config.estimator, label)
			if err != nil {
				fatal(3, err)
			}
			gc, err := config.groveConfig()
			if err != nil {
				fatal(1, err)
			}
			sampling, err := parseBagging(config.bagging)
			if err != nil {
				fatal(1, err)
			}
			opts := []grove.Option{grove.WithLogger(log.WithField("label", label.Name))}
			if config.metricsAddr != "" {
				m, err := config.serveMetrics()
				if err != nil {
					fatal(6, err)
				}
				opts = append(opts, grove.WithMetrics(m))
			}
			src := source(config.dataInput)
			if sampling != nil {
				config.Logf("Opening %s to draw a %s sample per tree...", src, config.bagging)
				p, release, err := src.Provider(config.Context(), columns, label.Name, *sampling)
				if err != nil {
					fatal(4, err)
				}
				defer release()
				opts = append(opts, grove.WithProvider(p))
			} else {
				config.Logf("Reading training set from %s...", src)
				ts, err := src.TrainingSet(config.Context(), columns, label.Name)
				if err != nil {
					fatal(4, err)
				}
				config.Logf("Read %d samples", ts.Count())
				opts = append(opts, grove.WithTrainingSet(ts))
			}
			config.Logf("Training forest of %d trees with %d columns to predict %s ...", gc.Trees, len(columns)-1, label.Name)
			f, err := grove.New(gc, g, e, opts...).Train(config.Context())
			if err != nil {
				fatal(7, fmt.Errorf("training the forest: %v", err))
			}
			config.Logf("Done")
			log.Debugf("%v", f)
			id, err := config.output.Save(config.Context(), columns, f)
			if err != nil {
				fatal(8, err)
			}
			if id != "" {
				fmt.Println(id)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to train the forest (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different columns available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.labelColumn), "label", "c", "", "name of the column the forest should predict (required)")
	config.output.addFlags(cmd.PersistentFlags(), "path to a file to which the trained forest will be written in JSON format (defaults to STDOUT); ignored when storing on redis")
	cmd.PersistentFlags().IntVar(&(config.trees), "trees", defaults.Trees, "number of trees of the forest")
	cmd.PersistentFlags().IntVar(&(config.depth), "depth", defaults.MaxDepth, "maximum depth of the trees")
	cmd.PersistentFlags().IntVar(&(config.features), "features", defaults.Features, "number of candidate features tested on every split")
	cmd.PersistentFlags().IntVar(&(config.thresholds), "thresholds", defaults.Thresholds, "number of candidate thresholds tested per feature on every split")
	cmd.PersistentFlags().IntVar(&(config.minSplit), "min-split", defaults.MinExamplesForSplit, "minimum number of samples a node needs to be split")
	cmd.PersistentFlags().BoolVar(&(config.randomFeatures), "random-features", defaults.RandomFeaturesPerSplit, "generate candidate features afresh on every split instead of once per training")
	cmd.PersistentFlags().StringVar(&(config.explicitThresholds), "explicit-thresholds", "", "comma-separated thresholds tested for every feature on every split, instead of synthesized ones")
	cmd.PersistentFlags().BoolVar(&(config.quantiles), "quantiles", false, "synthesize thresholds at quantiles of the feature responses instead of evenly over their range")
	cmd.PersistentFlags().Uint64Var(&(config.seed), "seed", defaults.Seed, "seed for every random choice of the training")
	cmd.PersistentFlags().IntVar(&(config.workers), "workers", 0, "maximum number of trees trained at a time (defaults to 0: the number of CPUs)")
	cmd.PersistentFlags().StringVar(&(config.bagging), "bagging", "", "sample drawn for every tree, the following are valid: bootstrap, bootstrap:[FRACTION], subsample:[FRACTION] (defaults to every sample for every tree)")
	cmd.PersistentFlags().StringVar(&(config.featureKind), "feature-kind", string(column.Single), "kind of candidate features, the following are valid: column, difference")
	cmd.PersistentFlags().StringVar(&(config.estimator), "estimator", "", "split quality measure, the following are valid: entropy, gini, variance (defaults to entropy for discrete labels and variance for continuous ones)")
	cmd.PersistentFlags().StringVar(&(config.metricsAddr), "metrics-addr", "", "address to serve prometheus metrics of the training on, under /metrics")
	return cmd
}

func (tcc *trainCmdConfig) Validate() error {
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if tcc.labelColumn == "" {
		return fmt.Errorf("required label flag was not set")
	}
	return nil
}

// groveConfig returns the training configuration set by the flags or an
// error if it is not valid.
func (tcc *trainCmdConfig) groveConfig() (grove.Config, error) {
	c := grove.Config{
		Trees:                  tcc.trees,
		MaxDepth:               tcc.depth,
		Features:               tcc.features,
		Thresholds:             tcc.thresholds,
		MinExamplesForSplit:    tcc.minSplit,
		RandomFeaturesPerSplit: tcc.randomFeatures,
		ThresholdStrategy:      grove.UniformThresholds,
		Seed:                   tcc.seed,
		Workers:                tcc.workers,
	}
	if tcc.quantiles {
		c.ThresholdStrategy = grove.QuantileThresholds
	}
	if tcc.explicitThresholds != "" {
		for _, s := range strings.Split(tcc.explicitThresholds, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return c, fmt.Errorf("parsing explicit-thresholds: %v", err)
			}
			c.ExplicitThresholds = append(c.ExplicitThresholds, v)
		}
		c.Thresholds = 0
	}
	return c, c.Validate()
}

func (tcc *trainCmdConfig) serveMetrics() (*metrics.Metrics, error) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(tcc.metricsAddr, mux); err != nil {
			log.WithError(err).Errorf("serving metrics on %s", tcc.metricsAddr)
		}
	}()
	tcc.Logf("Serving metrics on %s/metrics", tcc.metricsAddr)
	return m, nil
}

func labelColumn(columns []table.Column, name string) (table.Column, error) {
	for _, c := range columns {
		if c.Name == name {
			return c, nil
		}
	}
	return table.Column{}, fmt.Errorf("label column '%s' is not defined", name)
}

/*
estimatorFor takes the name of an estimator and the label column and
returns the stats.Estimator for them. An empty name picks entropy for
discrete labels and variance for continuous ones.
*/
func estimatorFor(name string, label table.Column) (stats.Estimator, error) {
	switch name {
	case "":
		if label.Discrete() {
			return stats.Entropy(), nil
		}
		return stats.Variance(), nil
	case "entropy":
		return stats.Entropy(), nil
	case "gini":
		return stats.Gini(), nil
	case "variance":
		if label.Discrete() {
			return nil, fmt.Errorf("variance estimator requires a continuous label, %s is discrete", label.Name)
		}
		return stats.Variance(), nil
	}
	return nil, fmt.Errorf("unknown estimator %s", name)
}

/*
parseBagging takes a bagging strategy and returns the sampling it stands
for, or nil for the empty strategy, under which every tree is trained on
every sample.
*/
func parseBagging(b string) (*dataset.Sampling, error) {
	if b == "" {
		return nil, nil
	}
	parsed := strings.Split(b, ":")
	s := &dataset.Sampling{Fraction: 1}
	switch parsed[0] {
	case "bootstrap":
		s.Replacement = true
		if len(parsed) == 1 {
			return s, nil
		}
	case "subsample":
		if len(parsed) == 1 {
			return nil, fmt.Errorf("subsample bagging requires a fraction parameter")
		}
	default:
		return nil, fmt.Errorf("unknown bagging strategy %s", parsed[0])
	}
	if len(parsed) > 2 {
		return nil, fmt.Errorf("too many parameters for %s bagging", parsed[0])
	}
	var err error
	s.Fraction, err = strconv.ParseFloat(parsed[1], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %s bagging fraction: %v", parsed[0], err)
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
