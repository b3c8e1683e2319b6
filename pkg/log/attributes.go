// Package log defines standard attribute keys for machine learning operations.
//
// Using these keys consistently across packages keeps log output analyzable:
// every fit, predict, and evaluate event names its model, operation, and data
// shape the same way. Keys follow a hierarchical naming convention
// (e.g. "model.name", "data.samples").
package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "DecisionTreeClassifier", "BaggingClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "evaluate", "resample"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "ensemble", "tree", "metrics", "dataset"
	ComponentKey = "ml.component"
)

// Data shape and characteristics.
const (
	// SamplesKey indicates the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) being processed.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct target classes.
	ClassesKey = "data.classes"
)

// Ensemble context.
const (
	// EstimatorsKey indicates the ensemble size m.
	EstimatorsKey = "ensemble.estimators"

	// MemberKey identifies a single ensemble member by index.
	MemberKey = "ensemble.member"

	// SeedKey records the random seed used for bootstrap resampling.
	SeedKey = "ensemble.seed"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records a computed accuracy value.
	AccuracyKey = "metric.accuracy"
)
