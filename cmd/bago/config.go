package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KoheiTanaka/bago/pkg/errors"
)

// pipelineConfig holds the hyperparameters of a run. It can be loaded from a
// YAML file; flags override individual fields afterwards.
type pipelineConfig struct {
	NEstimators     int     `yaml:"n_estimators"`
	Criterion       string  `yaml:"criterion"`
	MaxDepth        int     `yaml:"max_depth"`
	MinSamplesSplit int     `yaml:"min_samples_split"`
	MinSamplesLeaf  int     `yaml:"min_samples_leaf"`
	NJobs           int     `yaml:"n_jobs"`
	OOBScore        bool    `yaml:"oob_score"`
	TestRatio       float64 `yaml:"test_ratio"`
	Seed            *uint64 `yaml:"seed"`
}

func defaultPipelineConfig() pipelineConfig {
	return pipelineConfig{
		NEstimators:     100,
		Criterion:       "gini",
		MaxDepth:        -1,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		NJobs:           1,
		TestRatio:       0.3,
	}
}

// loadPipelineConfig reads a YAML hyperparameter file over the defaults.
func loadPipelineConfig(path string) (pipelineConfig, error) {
	config := defaultPipelineConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrap(err, "parsing config file")
	}
	return config, nil
}
