// Package bago provides bootstrap-aggregated (bagged) decision tree
// classification for Go, designed for batch training and evaluation of
// tabular datasets.
//
// bago offers a scikit-learn-like API: estimators are constructed with
// functional options, trained with Fit, and queried with Predict,
// PredictProba and Score. Fitted attributes carry a trailing underscore
// internally and are exposed through accessor methods.
//
// # Quick Start
//
// Train a bagged ensemble and predict:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/KoheiTanaka/bago/ensemble"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{1, 2, 3, 7, 8, 9})
//	    y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
//
//	    clf := ensemble.NewBaggingClassifier(
//	        ensemble.WithNEstimators(25),
//	        ensemble.WithSeed(42),
//	    )
//	    if err := clf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    XTest := mat.NewDense(2, 1, []float64{2.5, 7.5})
//	    pred, err := clf.Predict(XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Predictions:", pred)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - ensemble: BaggingClassifier, majority-vote aggregation and per-member evaluation
//   - tree: DecisionTreeClassifier, the base estimator
//   - resample: Bootstrap resampling and out-of-bag index computation
//   - dataset: CSV loading, categorical level encoding and train/test splitting
//   - metrics: Confusion-matrix metrics, AUC, log loss and comparison reports
//   - visualize: Per-metric box plots comparing members against the aggregate
//   - core/model: Core interfaces, base estimator state and gob persistence
//   - core/parallel: Parallel processing utilities
//
// # Reproducibility
//
// All random operations (bootstrap resampling, train/test splitting) accept
// an explicit seed. A seeded run produces identical resamples, trees and
// predictions regardless of the number of concurrent workers.
//
// # Command Line
//
// The bago command trains, evaluates, plots and persists ensembles from
// labeled CSV files:
//
//	bago run -d data.csv -t label -m 50 --seed 42 -p plots/ -s model.gob
//	bago predict -M model.gob -d new.csv
package bago
