package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "grove.cli")

func setupLogging(verbose bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !verbose})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.WarnLevel)
}

// Logf logs progress messages, only shown when running verbosely.
func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	log.Infof(format, a...)
}

// fatal prints the error on STDERR and exits with the given code.
func fatal(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}
