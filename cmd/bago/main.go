// Command bago runs the bagging pipeline end to end: load a labeled CSV
// dataset, split it, train a bagged tree ensemble, evaluate every member and
// the aggregate on the held-out test set, and optionally render comparison
// plots or persist the fitted model.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bago",
		Short: "bago is a tool to train and evaluate bagged tree ensembles",
		Long:  `A tool to train bootstrap-aggregated decision tree classifiers on tabular data, compare member performance against the majority-vote aggregate, and use fitted ensembles to make predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd(), runCmd(config), predictCmd(config))
	return rootCmd
}
