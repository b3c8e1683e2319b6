// Package ensemble implements bootstrap aggregating (bagging) for
// classification.
//
// A BaggingClassifier draws m bootstrap resamples of the training set, fits
// one decision tree per resample with a shared set of hyperparameters, and
// predicts by majority vote over the member predictions. Members are fully
// independent: training one never observes another, which also makes the fit
// stage embarrassingly parallel (see WithNJobs).
package ensemble

import (
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/KoheiTanaka/bago/core/model"
	"github.com/KoheiTanaka/bago/core/parallel"
	"github.com/KoheiTanaka/bago/pkg/errors"
	"github.com/KoheiTanaka/bago/pkg/log"
	"github.com/KoheiTanaka/bago/resample"
	"github.com/KoheiTanaka/bago/tree"
)

// BaggingClassifier is a bagged ensemble of decision tree classifiers.
//
// The zero value is not usable; construct with NewBaggingClassifier.
type BaggingClassifier struct {
	model.BaseEstimator

	// hyperparameters (shared by every member, no per-member tuning)
	nEstimators     int
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	seeded          bool
	seed            uint64
	nJobs           int
	oobScore        bool

	// fitted state
	estimators_ []*tree.DecisionTreeClassifier
	samples_    [][]int
	classes_    []float64
	classNames_ []string
	nClasses_   int
	oobScore_   float64
}

// NewBaggingClassifier creates an ensemble with the given options.
// Defaults: 100 estimators, gini trees of unlimited depth, sequential
// training, unseeded resampling.
func NewBaggingClassifier(opts ...Option) *BaggingClassifier {
	b := &BaggingClassifier{
		nEstimators:     100,
		criterion:       "gini",
		maxDepth:        -1,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		nJobs:           1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Fit draws nEstimators bootstrap resamples of (X, y) and fits one tree per
// resample. A resample that contains a single class still produces a member
// (a constant predictor); it is reported as a warning, not an error.
func (b *BaggingClassifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "BaggingClassifier.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("BaggingClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	yr, _ := y.Dims()
	if yr != r {
		return errors.NewDimensionError("BaggingClassifier.Fit", r, yr, 0)
	}
	if b.nEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be >= 1", b.nEstimators)
	}

	logger := log.GetLoggerWithName("ensemble")
	start := time.Now()
	logger.Debug().
		Str(log.ModelNameKey, "BaggingClassifier").
		Str(log.OperationKey, "fit").
		Int(log.SamplesKey, r).
		Int(log.FeaturesKey, c).
		Int(log.EstimatorsKey, b.nEstimators).
		Msg("training started")

	labels := mat.Col(nil, 0, y)
	b.classes_ = distinctSorted(labels)
	b.nClasses_ = len(b.classes_)

	bootstrap := resample.NewBootstrap(b.nEstimators, b.seeded, b.seed)
	samples, err := bootstrap.Split(r)
	if err != nil {
		return errors.Wrap(err, "generating bootstrap resamples")
	}

	estimators := make([]*tree.DecisionTreeClassifier, b.nEstimators)
	errs := make([]error, b.nEstimators)

	// The resample index streams are drawn up-front on the calling
	// goroutine, so fits can run in any order without changing the model.
	// Each member fit runs under SafeExecute: a panic inside a worker
	// goroutine cannot reach the Recover deferred above, so it is converted
	// to an error at the member boundary instead.
	parallel.ParallelizeN(b.nEstimators, b.nJobs, func(startIdx, endIdx int) {
		for k := startIdx; k < endIdx; k++ {
			errs[k] = errors.SafeExecute("BaggingClassifier.Fit", func() error {
				Xk, yk := selectRows(X, y, samples[k])

				if cls, degenerate := singleClass(yk); degenerate {
					errors.Warn(errors.NewDegenerateSampleWarning(k, cls))
				}

				dt := tree.NewDecisionTreeClassifier(
					tree.WithCriterion(b.criterion),
					tree.WithMaxDepth(b.maxDepth),
					tree.WithMinSamplesSplit(b.minSamplesSplit),
					tree.WithMinSamplesLeaf(b.minSamplesLeaf),
				)
				if fitErr := dt.Fit(Xk, yk); fitErr != nil {
					return errors.Wrapf(fitErr, "fitting ensemble member %d", k)
				}
				estimators[k] = dt
				return nil
			})
		}
	})

	for _, e := range errs {
		if e != nil {
			return e
		}
	}

	b.estimators_ = estimators
	b.samples_ = samples
	b.SetNFeaturesIn(c)
	b.SetFitted()

	if b.oobScore {
		b.oobScore_ = b.computeOOBScore(X, labels)
	}

	logger.Info().
		Str(log.ModelNameKey, "BaggingClassifier").
		Str(log.OperationKey, "fit").
		Int(log.EstimatorsKey, b.nEstimators).
		Int64(log.DurationMsKey, time.Since(start).Milliseconds()).
		Msg("training finished")
	return nil
}

// EstimatorPredictions returns the prediction matrix: one row per sample of
// X, one column per ensemble member, entries are predicted labels.
func (b *BaggingClassifier) EstimatorPredictions(X mat.Matrix) (*mat.Dense, error) {
	if !b.IsFitted() {
		return nil, errors.NewNotFittedError("BaggingClassifier", "EstimatorPredictions")
	}
	r, c := X.Dims()
	if c != b.NFeaturesIn() {
		return nil, errors.NewDimensionError("BaggingClassifier.EstimatorPredictions", b.NFeaturesIn(), c, 1)
	}

	out := mat.NewDense(r, b.nEstimators, nil)
	for k, dt := range b.estimators_ {
		pred, err := dt.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "predicting with ensemble member %d", k)
		}
		for i := 0; i < r; i++ {
			out.Set(i, k, pred.At(i, 0))
		}
	}
	return out, nil
}

// Predict reduces each row of the prediction matrix to one label by majority
// vote. On an exact tie (only possible with an even number of members) the
// vote resolves to the lower class label, i.e. the negative class under the
// conventional 0/1 encoding.
func (b *BaggingClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	preds, err := b.EstimatorPredictions(X)
	if err != nil {
		return nil, err
	}

	r, _ := preds.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, b.vote(preds.RawRowView(i)))
	}
	return out, nil
}

// PredictProba returns the vote share per class: the fraction of members
// predicting each class, columns ordered like Classes().
func (b *BaggingClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !b.IsFitted() {
		return nil, errors.NewNotFittedError("BaggingClassifier", "PredictProba")
	}
	preds, err := b.EstimatorPredictions(X)
	if err != nil {
		return nil, err
	}

	r, _ := preds.Dims()
	out := mat.NewDense(r, b.nClasses_, nil)
	m := float64(b.nEstimators)
	for i := 0; i < r; i++ {
		for _, label := range preds.RawRowView(i) {
			out.Set(i, b.classIndex(label), out.At(i, b.classIndex(label))+1)
		}
		for j := 0; j < b.nClasses_; j++ {
			out.Set(i, j, out.At(i, j)/m)
		}
	}
	return out, nil
}

// Score returns the mean accuracy of the aggregated prediction on (X, y).
func (b *BaggingClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := b.Predict(X)
	if err != nil {
		return 0
	}
	r, _ := y.Dims()
	correct := 0
	for i := 0; i < r; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(r)
}

// OOBScore returns the out-of-bag accuracy estimate computed during Fit.
// Only meaningful when the classifier was built with WithOOBScore(true).
func (b *BaggingClassifier) OOBScore() float64 {
	return b.oobScore_
}

// Estimators returns the fitted ensemble members in resample order.
func (b *BaggingClassifier) Estimators() []*tree.DecisionTreeClassifier {
	return b.estimators_
}

// NEstimators returns the ensemble size m.
func (b *BaggingClassifier) NEstimators() int {
	return b.nEstimators
}

// Classes returns the sorted class labels seen during Fit.
func (b *BaggingClassifier) Classes() []float64 {
	out := make([]float64, len(b.classes_))
	copy(out, b.classes_)
	return out
}

// NClasses returns the number of classes seen during Fit.
func (b *BaggingClassifier) NClasses() int {
	return b.nClasses_
}

// SetClassNames attaches the original target level names, ordered like
// Classes(). The names travel with the model through gob persistence, so a
// loaded ensemble decodes predictions with the training-time encoding rather
// than whatever levels an inference dataset happens to contain.
func (b *BaggingClassifier) SetClassNames(names []string) error {
	if !b.IsFitted() {
		return errors.NewNotFittedError("BaggingClassifier", "SetClassNames")
	}
	if len(names) != b.nClasses_ {
		return errors.NewDimensionError("BaggingClassifier.SetClassNames", b.nClasses_, len(names), 0)
	}
	b.classNames_ = append([]string(nil), names...)
	return nil
}

// ClassNames returns the attached target level names, nil if none were set.
func (b *BaggingClassifier) ClassNames() []string {
	if b.classNames_ == nil {
		return nil
	}
	out := make([]string, len(b.classNames_))
	copy(out, b.classNames_)
	return out
}

// ClassName maps an encoded label back to its training-time level name.
// Unknown labels and models without attached names fall back to the numeric
// form of the label.
func (b *BaggingClassifier) ClassName(label float64) string {
	for i, c := range b.classes_ {
		if c == label && i < len(b.classNames_) {
			return b.classNames_[i]
		}
	}
	return strconv.FormatFloat(label, 'g', -1, 64)
}

// GetParams returns the hyperparameters keyed by their scikit-learn names.
func (b *BaggingClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      b.nEstimators,
		"criterion":         b.criterion,
		"max_depth":         b.maxDepth,
		"min_samples_split": b.minSamplesSplit,
		"min_samples_leaf":  b.minSamplesLeaf,
		"n_jobs":            b.nJobs,
		"oob_score":         b.oobScore,
	}
}

// SetParams updates hyperparameters from a map of scikit-learn names.
func (b *BaggingClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_estimators":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			b.nEstimators = v
		case "criterion":
			v, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			b.criterion = v
		case "max_depth":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			b.maxDepth = v
		case "min_samples_split":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			b.minSamplesSplit = v
		case "min_samples_leaf":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			b.minSamplesLeaf = v
		case "n_jobs":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			b.nJobs = v
		case "oob_score":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(key, "must be a bool", value)
			}
			b.oobScore = v
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

// vote tallies one prediction-matrix row. Ties resolve to the lowest class
// because argmax only advances on a strictly greater count and classes_ is
// sorted ascending.
func (b *BaggingClassifier) vote(row []float64) float64 {
	counts := make([]int, b.nClasses_)
	for _, label := range row {
		counts[b.classIndex(label)]++
	}
	best := 0
	for j, c := range counts {
		if c > counts[best] {
			best = j
		}
	}
	return b.classes_[best]
}

func (b *BaggingClassifier) classIndex(label float64) int {
	for j, c := range b.classes_ {
		if c == label {
			return j
		}
	}
	return 0
}

// computeOOBScore votes each training row using only the members whose
// bootstrap resample excluded it. Rows that every resample included are
// skipped.
func (b *BaggingClassifier) computeOOBScore(X mat.Matrix, labels []float64) float64 {
	r, _ := X.Dims()

	inBag := make([][]bool, b.nEstimators)
	for k, sample := range b.samples_ {
		inBag[k] = make([]bool, r)
		for _, i := range sample {
			inBag[k][i] = true
		}
	}

	memberPreds, err := b.EstimatorPredictions(X)
	if err != nil {
		return 0
	}

	correct, counted := 0, 0
	counts := make([]int, b.nClasses_)
	for i := 0; i < r; i++ {
		for j := range counts {
			counts[j] = 0
		}
		voters := 0
		for k := 0; k < b.nEstimators; k++ {
			if inBag[k][i] {
				continue
			}
			counts[b.classIndex(memberPreds.At(i, k))]++
			voters++
		}
		if voters == 0 {
			continue
		}
		best := 0
		for j, c := range counts {
			if c > counts[best] {
				best = j
			}
		}
		counted++
		if b.classes_[best] == labels[i] {
			correct++
		}
	}
	if counted == 0 {
		return 0
	}
	return float64(correct) / float64(counted)
}

// selectRows materializes the (possibly repeated) rows of one bootstrap
// resample.
func selectRows(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	_, c := X.Dims()
	Xb := mat.NewDense(len(indices), c, nil)
	yb := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < c; j++ {
			Xb.Set(i, j, X.At(idx, j))
		}
		yb.Set(i, 0, y.At(idx, 0))
	}
	return Xb, yb
}

func singleClass(y *mat.Dense) (float64, bool) {
	r, _ := y.Dims()
	first := y.At(0, 0)
	for i := 1; i < r; i++ {
		if y.At(i, 0) != first {
			return 0, false
		}
	}
	return first, true
}

func distinctSorted(values []float64) []float64 {
	out := make([]float64, 0, 2)
	for _, v := range values {
		found := false
		for _, u := range out {
			if u == v {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	// insertion sort, class counts are tiny
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
