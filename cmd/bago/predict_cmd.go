package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KoheiTanaka/bago/core/model"
	"github.com/KoheiTanaka/bago/dataset"
	"github.com/KoheiTanaka/bago/ensemble"
	"github.com/KoheiTanaka/bago/pkg/log"
)

type predictCmdConfig struct {
	*rootCmdConfig
	modelInput string
	dataInput  string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict labels with a previously saved ensemble",
		Long:  `Load a fitted ensemble saved by 'bago run --save' and print the aggregated majority-vote prediction for every record of a feature CSV. Labels are decoded with the class names persisted at training time`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVarP(&config.modelInput, "model", "M", "", "path to the saved ensemble (required)")
	cmd.Flags().StringVarP(&config.dataInput, "data", "d", "", "path to the feature CSV (required)")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("data")
	return cmd
}

func (c *predictCmdConfig) run() error {
	if c.verbose {
		log.Setup("debug")
	} else {
		log.Setup("warn")
	}

	clf := ensemble.NewBaggingClassifier()
	if err := model.LoadModel(clf, c.modelInput); err != nil {
		return err
	}

	X, _, err := dataset.LoadFeatureCSV(c.dataInput)
	if err != nil {
		return err
	}

	pred, err := clf.Predict(X)
	if err != nil {
		return err
	}

	r, _ := pred.Dims()
	for i := 0; i < r; i++ {
		fmt.Println(clf.ClassName(pred.At(i, 0)))
	}
	return nil
}
