package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type rootCmdConfig struct {
	verbose    bool
	configFile string
	v          *viper.Viper
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "grove is a tool to train decision forests",
		Long:  `A tool to train randomized decision forests from your data, test them, and use them to make predictions`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.load(cmd)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a configuration file (YAML, JSON or TOML) with default values for the command flags")
	rootCmd.AddCommand(versionCmd(), trainCmd(config), showCmd(config), testCmd(config), predictCmd(config), setCmd(config))
	return rootCmd
}

/*
load fills every flag of the command that was not set on the command line
with the value given for it on the configuration file or on a GROVE_
prefixed environment variable (GROVE_MIN_SPLIT for --min-split), and then
sets up logging.
*/
func (rcc *rootCmdConfig) load(cmd *cobra.Command) error {
	rcc.v.SetEnvPrefix("GROVE")
	rcc.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	rcc.v.AutomaticEnv()
	if rcc.configFile != "" {
		rcc.v.SetConfigFile(rcc.configFile)
		if err := rcc.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading configuration file %s: %v", rcc.configFile, err)
		}
	}
	if err := rcc.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !rcc.v.IsSet(f.Name) {
			return
		}
		if serr := f.Value.Set(rcc.v.GetString(f.Name)); serr != nil {
			err = fmt.Errorf("setting %s from configuration: %v", f.Name, serr)
		}
	})
	if err != nil {
		return err
	}
	setupLogging(rcc.verbose)
	return nil
}

// Context returns a context that is cancelled when the process receives
// an interrupt signal.
func (rcc *rootCmdConfig) Context() context.Context {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancelFunc = signal.NotifyContext(context.Background(), os.Interrupt)
	}
	return rcc.ctx
}
