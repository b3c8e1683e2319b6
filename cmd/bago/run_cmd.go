package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KoheiTanaka/bago/core/model"
	"github.com/KoheiTanaka/bago/dataset"
	"github.com/KoheiTanaka/bago/ensemble"
	"github.com/KoheiTanaka/bago/pkg/log"
	"github.com/KoheiTanaka/bago/visualize"
)

type runCmdConfig struct {
	*rootCmdConfig
	dataInput   string
	target      string
	configInput string
	plotsDir    string
	modelOutput string
	estimators  int
	seed        int64
	testRatio   float64
	jobs        int
}

func runCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &runCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train and evaluate a bagged ensemble on a CSV dataset",
		Long:  `Train a bootstrap-aggregated decision tree ensemble on a labeled CSV dataset and print a performance table comparing every member against the majority-vote aggregate on a held-out test split`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVarP(&config.dataInput, "data", "d", "", "path to the CSV dataset (required)")
	cmd.Flags().StringVarP(&config.target, "target", "t", "", "name of the target column (required)")
	cmd.Flags().StringVarP(&config.configInput, "config", "c", "", "path to a YAML hyperparameter file")
	cmd.Flags().StringVarP(&config.plotsDir, "plots", "p", "", "directory to write per-metric comparison plots")
	cmd.Flags().StringVarP(&config.modelOutput, "save", "s", "", "path to save the fitted ensemble (gob)")
	cmd.Flags().IntVarP(&config.estimators, "estimators", "m", 0, "ensemble size, overrides the config file")
	cmd.Flags().Int64Var(&config.seed, "seed", -1, "random seed for resampling and splitting (negative for nondeterministic)")
	cmd.Flags().Float64Var(&config.testRatio, "test-ratio", 0, "fraction of records held out for testing, overrides the config file")
	cmd.Flags().IntVarP(&config.jobs, "jobs", "j", 0, "number of concurrent member fits, overrides the config file")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("target")
	return cmd
}

func (c *runCmdConfig) run() error {
	if c.verbose {
		log.Setup("debug")
	} else {
		log.Setup("warn")
	}

	params := defaultPipelineConfig()
	if c.configInput != "" {
		loaded, err := loadPipelineConfig(c.configInput)
		if err != nil {
			return err
		}
		params = loaded
	}
	if c.estimators > 0 {
		params.NEstimators = c.estimators
	}
	if c.testRatio > 0 {
		params.TestRatio = c.testRatio
	}
	if c.jobs > 0 {
		params.NJobs = c.jobs
	}
	if c.seed >= 0 {
		seed := uint64(c.seed)
		params.Seed = &seed
	}

	table, err := dataset.LoadCSV(c.dataInput, c.target)
	if err != nil {
		return err
	}

	seeded := params.Seed != nil
	var seed uint64
	if seeded {
		seed = *params.Seed
	}
	train, test, err := table.Split(params.TestRatio, seeded, seed)
	if err != nil {
		return err
	}

	opts := []ensemble.Option{
		ensemble.WithNEstimators(params.NEstimators),
		ensemble.WithCriterion(params.Criterion),
		ensemble.WithMaxDepth(params.MaxDepth),
		ensemble.WithMinSamplesSplit(params.MinSamplesSplit),
		ensemble.WithMinSamplesLeaf(params.MinSamplesLeaf),
		ensemble.WithNJobs(params.NJobs),
		ensemble.WithOOBScore(params.OOBScore),
	}
	if seeded {
		opts = append(opts, ensemble.WithSeed(seed))
	}

	clf := ensemble.NewBaggingClassifier(opts...)
	if err := clf.Fit(train.X(), train.Y()); err != nil {
		return err
	}
	if err := clf.SetClassNames(table.Classes()); err != nil {
		return err
	}

	report, err := clf.Evaluate(test.X(), test.Y())
	if err != nil {
		return err
	}
	fmt.Print(report.String())
	if params.OOBScore {
		fmt.Printf("\nout-of-bag accuracy estimate: %.4f\n", clf.OOBScore())
	}

	if c.plotsDir != "" {
		if err := os.MkdirAll(c.plotsDir, 0o755); err != nil {
			return err
		}
		paths, err := visualize.MetricBoxPlots(report, c.plotsDir)
		if err != nil {
			return err
		}
		fmt.Printf("\nwrote %d comparison plots to %s\n", len(paths), c.plotsDir)
	}

	if c.modelOutput != "" {
		if err := model.SaveModel(clf, c.modelOutput); err != nil {
			return err
		}
		fmt.Printf("saved fitted ensemble to %s\n", c.modelOutput)
	}
	return nil
}
