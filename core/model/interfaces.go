// Package model provides the shared estimator scaffolding for Bago models:
// fitted-state tracking, the classifier interfaces, and gob persistence.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for models that can be trained.
type Fitter interface {
	// Fit trains the model on X (n_samples x n_features) and y (n_samples x 1).
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that produce label predictions.
type Predictor interface {
	// Predict returns an (n_samples x 1) matrix of predicted labels.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// ProbaPredictor is the interface for classifiers that estimate class
// probabilities.
type ProbaPredictor interface {
	// PredictProba returns an (n_samples x n_classes) matrix of class
	// probabilities, columns ordered like Classes.
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the interface every Bago classifier satisfies, whether a
// single decision tree or a bagged ensemble.
type Classifier interface {
	Fitter
	Predictor
	ProbaPredictor

	// Classes returns the sorted class labels seen during Fit.
	Classes() []float64

	// NClasses returns the number of classes seen during Fit.
	NClasses() int

	// Score returns the mean accuracy on the given test data and labels.
	Score(X, y mat.Matrix) float64
}

// ParamsGetterSetter mirrors the scikit-learn get_params/set_params protocol.
// Parameter keys use snake_case names ("max_depth", "n_estimators").
type ParamsGetterSetter interface {
	GetParams() map[string]interface{}
	SetParams(params map[string]interface{}) error
}
