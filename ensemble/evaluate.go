package ensemble

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/KoheiTanaka/bago/metrics"
	"github.com/KoheiTanaka/bago/pkg/errors"
)

// AggregateRowName is the report key of the ensemble's own row.
const AggregateRowName = "ensemble"

// Evaluate scores every ensemble member and the aggregated prediction on the
// same held-out test set, so the comparison is apples-to-apples. The returned
// report holds one row per member, named tree_00, tree_01, ..., plus the
// single aggregate row.
//
// The positive class for the confusion matrix is the highest class label,
// which under the sorted 0/1 encoding is the "yes" level.
func (b *BaggingClassifier) Evaluate(X, y mat.Matrix) (*metrics.Report, error) {
	if !b.IsFitted() {
		return nil, errors.NewNotFittedError("BaggingClassifier", "Evaluate")
	}

	yTrue, err := columnVector(y)
	if err != nil {
		return nil, errors.Wrap(err, "ensemble.Evaluate")
	}
	positive := b.classes_[len(b.classes_)-1]

	report := metrics.NewReport()

	memberPreds, err := b.EstimatorPredictions(X)
	if err != nil {
		return nil, err
	}
	r, _ := memberPreds.Dims()
	pred := mat.NewVecDense(r, nil)
	for k := 0; k < b.nEstimators; k++ {
		for i := 0; i < r; i++ {
			pred.SetVec(i, memberPreds.At(i, k))
		}
		perf, err := metrics.Evaluate(yTrue, pred, positive)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating ensemble member %d", k)
		}
		report.AddMember(fmt.Sprintf("tree_%02d", k), perf)
	}

	final, err := b.Predict(X)
	if err != nil {
		return nil, err
	}
	finalVec, err := columnVector(final)
	if err != nil {
		return nil, errors.Wrap(err, "ensemble.Evaluate")
	}
	aggPerf, err := metrics.Evaluate(yTrue, finalVec, positive)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating aggregate")
	}
	report.SetAggregate(AggregateRowName, aggPerf)

	return report, nil
}

func columnVector(m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError("columnVector", "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("columnVector", "empty matrix")
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
