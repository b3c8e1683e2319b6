// Package tree implements a CART decision tree classifier with a
// scikit-learn-compatible API. It is the default ensemble member for the
// bagging classifier in package ensemble, and is usable on its own.
package tree

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/KoheiTanaka/bago/core/model"
	"github.com/KoheiTanaka/bago/pkg/errors"
)

// Node is a single node of a fitted decision tree. Fields are exported for
// gob serialization.
type Node struct {
	// Leaf marks terminal nodes.
	Leaf bool

	// Feature and Threshold define the split: samples with
	// X[Feature] <= Threshold go left.
	Feature   int
	Threshold float64

	Left  *Node
	Right *Node

	// ClassCounts holds the training sample count per class at this node,
	// ordered like the classifier's classes. Prediction at a leaf is the
	// argmax; probabilities are the normalized counts.
	ClassCounts []float64
}

// DecisionTreeClassifier is a binary-split decision tree for classification.
//
// The zero value is not usable; construct with NewDecisionTreeClassifier.
// Fitted attributes follow the scikit-learn trailing underscore convention.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	// hyperparameters
	criterion       string
	maxDepth        int // -1 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int

	// fitted state
	root         *Node
	classes_     []float64
	nClasses_    int
	importances_ []float64
	depth_       int
	nLeaves_     int
}

// NewDecisionTreeClassifier creates a classifier with the given options.
// Defaults: gini criterion, unlimited depth, min_samples_split=2,
// min_samples_leaf=1.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		criterion:       "gini",
		maxDepth:        -1,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// Fit grows the tree from X (n_samples x n_features) and y (n_samples x 1).
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	yr, _ := y.Dims()
	if yr != r {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", r, yr, 0)
	}
	if dt.criterion != "gini" && dt.criterion != "entropy" {
		return errors.NewValidationError("criterion", "must be 'gini' or 'entropy'", dt.criterion)
	}
	if dt.minSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", "must be >= 2", dt.minSamplesSplit)
	}
	if dt.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be >= 1", dt.minSamplesLeaf)
	}

	labels := make([]float64, r)
	for i := 0; i < r; i++ {
		labels[i] = y.At(i, 0)
	}
	dt.classes_ = distinctSorted(labels)
	dt.nClasses_ = len(dt.classes_)

	classIdx := make(map[float64]int, dt.nClasses_)
	for i, cl := range dt.classes_ {
		classIdx[cl] = i
	}

	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}

	g := &grower{
		X:        X,
		labels:   labels,
		classIdx: classIdx,
		nClasses: dt.nClasses_,
		nTotal:   r,
		dt:       dt,
	}
	dt.importances_ = make([]float64, c)
	dt.depth_ = 0
	dt.nLeaves_ = 0
	dt.root = g.grow(indices, 0)

	normalize(dt.importances_)
	dt.SetNFeaturesIn(c)
	dt.SetFitted()
	return nil
}

// Predict returns an (n_samples x 1) matrix of predicted class labels.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}
	r, c := X.Dims()
	if c != dt.NFeaturesIn() {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.Predict", dt.NFeaturesIn(), c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		counts := dt.apply(row).ClassCounts
		out.Set(i, 0, dt.classes_[argmax(counts)])
	}
	return out, nil
}

// PredictProba returns an (n_samples x n_classes) matrix of class
// probabilities, columns ordered like Classes().
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	r, c := X.Dims()
	if c != dt.NFeaturesIn() {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", dt.NFeaturesIn(), c, 1)
	}

	out := mat.NewDense(r, dt.nClasses_, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		counts := dt.apply(row).ClassCounts
		total := 0.0
		for _, v := range counts {
			total += v
		}
		for j, v := range counts {
			out.Set(i, j, v/total)
		}
	}
	return out, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
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

// Classes returns the sorted class labels seen during Fit.
func (dt *DecisionTreeClassifier) Classes() []float64 {
	out := make([]float64, len(dt.classes_))
	copy(out, dt.classes_)
	return out
}

// NClasses returns the number of classes seen during Fit.
func (dt *DecisionTreeClassifier) NClasses() int {
	return dt.nClasses_
}

// GetFeatureImportances returns the normalized impurity-decrease importance
// of each feature. The values sum to 1 for any tree with at least one split.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	out := make([]float64, len(dt.importances_))
	copy(out, dt.importances_)
	return out
}

// GetDepth returns the depth of the fitted tree. A single-leaf tree has depth 0.
func (dt *DecisionTreeClassifier) GetDepth() int {
	return dt.depth_
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	return dt.nLeaves_
}

// GetParams returns the hyperparameters keyed by their scikit-learn names.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
		"min_samples_leaf":  dt.minSamplesLeaf,
	}
}

// SetParams updates hyperparameters from a map of scikit-learn names.
// Unknown keys are rejected.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			v, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			dt.criterion = v
		case "max_depth":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			dt.maxDepth = v
		case "min_samples_split":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			dt.minSamplesSplit = v
		case "min_samples_leaf":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			dt.minSamplesLeaf = v
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

// apply walks a sample down to its leaf.
func (dt *DecisionTreeClassifier) apply(row []float64) *Node {
	node := dt.root
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

// grower carries the immutable fit context through the recursive build.
type grower struct {
	X        mat.Matrix
	labels   []float64
	classIdx map[float64]int
	nClasses int
	nTotal   int
	dt       *DecisionTreeClassifier
}

func (g *grower) grow(indices []int, depth int) *Node {
	counts := g.countClasses(indices)

	if depth > g.dt.depth_ {
		g.dt.depth_ = depth
	}

	if g.isPure(counts) ||
		len(indices) < g.dt.minSamplesSplit ||
		(g.dt.maxDepth >= 0 && depth >= g.dt.maxDepth) {
		return g.leaf(counts)
	}

	feature, threshold, gain := g.bestSplit(indices, counts)
	if gain <= 0 {
		return g.leaf(counts)
	}

	var left, right []int
	for _, i := range indices {
		if g.X.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < g.dt.minSamplesLeaf || len(right) < g.dt.minSamplesLeaf {
		return g.leaf(counts)
	}

	g.dt.importances_[feature] += float64(len(indices)) / float64(g.nTotal) * gain

	return &Node{
		Feature:     feature,
		Threshold:   threshold,
		Left:        g.grow(left, depth+1),
		Right:       g.grow(right, depth+1),
		ClassCounts: counts,
	}
}

func (g *grower) leaf(counts []float64) *Node {
	g.dt.nLeaves_++
	return &Node{Leaf: true, ClassCounts: counts}
}

func (g *grower) countClasses(indices []int) []float64 {
	counts := make([]float64, g.nClasses)
	for _, i := range indices {
		counts[g.classIdx[g.labels[i]]]++
	}
	return counts
}

func (g *grower) isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// bestSplit scans every feature for the threshold with the largest impurity
// decrease. Candidate thresholds are midpoints between adjacent distinct
// sorted values.
func (g *grower) bestSplit(indices []int, parentCounts []float64) (feature int, threshold, gain float64) {
	n := float64(len(indices))
	parentImpurity := g.impurity(parentCounts, n)

	feature = -1
	_, nFeatures := g.X.Dims()

	type valueLabel struct {
		value float64
		class int
	}
	pairs := make([]valueLabel, len(indices))

	for f := 0; f < nFeatures; f++ {
		for i, idx := range indices {
			pairs[i] = valueLabel{g.X.At(idx, f), g.classIdx[g.labels[idx]]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].value < pairs[b].value })

		leftCounts := make([]float64, g.nClasses)
		rightCounts := make([]float64, g.nClasses)
		copy(rightCounts, parentCounts)

		for i := 0; i < len(pairs)-1; i++ {
			leftCounts[pairs[i].class]++
			rightCounts[pairs[i].class]--

			if pairs[i].value == pairs[i+1].value {
				continue
			}

			nLeft := float64(i + 1)
			nRight := n - nLeft
			childImpurity := (nLeft*g.impurity(leftCounts, nLeft) +
				nRight*g.impurity(rightCounts, nRight)) / n

			if improvement := parentImpurity - childImpurity; improvement > gain {
				gain = improvement
				feature = f
				threshold = (pairs[i].value + pairs[i+1].value) / 2
			}
		}
	}
	return feature, threshold, gain
}

func (g *grower) impurity(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	if g.dt.criterion == "entropy" {
		e := 0.0
		for _, c := range counts {
			if c > 0 {
				p := c / total
				e -= p * math.Log2(p)
			}
		}
		return e
	}
	// gini
	gini := 1.0
	for _, c := range counts {
		p := c / total
		gini -= p * p
	}
	return gini
}

func distinctSorted(values []float64) []float64 {
	seen := make(map[float64]struct{}, len(values))
	out := make([]float64, 0, 2)
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func normalize(values []float64) {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range values {
		values[i] /= sum
	}
}
