// Package dataset loads labeled tabular data into the matrix form the
// classifiers consume.
//
// A Table holds an immutable snapshot: a feature matrix, an encoded target
// vector, and the metadata needed to map encoded values back to their
// original string levels. Categorical columns (features and target) are
// level-encoded with levels sorted lexicographically, so the encoding is
// stable across runs. For a binary target that means the lower level encodes
// to 0 and acts as the negative class.
package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/KoheiTanaka/bago/pkg/errors"
)

// Table is an immutable labeled dataset.
type Table struct {
	featureNames []string
	x            *mat.Dense
	y            *mat.VecDense
	classes      []string // target levels in encoding order
}

// NewTable builds a Table from pre-encoded data. The y vector holds class
// indices into classes.
func NewTable(featureNames []string, x *mat.Dense, y *mat.VecDense, classes []string) (*Table, error) {
	if x == nil || y == nil {
		return nil, errors.NewValueError("NewTable", "nil data")
	}
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("NewTable", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError("NewTable", r, y.Len(), 0)
	}
	if len(featureNames) != c {
		return nil, errors.NewDimensionError("NewTable", c, len(featureNames), 1)
	}
	return &Table{featureNames: featureNames, x: x, y: y, classes: classes}, nil
}

// NSamples returns the number of records.
func (t *Table) NSamples() int {
	r, _ := t.x.Dims()
	return r
}

// NFeatures returns the number of feature columns.
func (t *Table) NFeatures() int {
	_, c := t.x.Dims()
	return c
}

// FeatureNames returns the feature column names in matrix order.
func (t *Table) FeatureNames() []string {
	out := make([]string, len(t.featureNames))
	copy(out, t.featureNames)
	return out
}

// X returns the feature matrix.
func (t *Table) X() *mat.Dense {
	return t.x
}

// Y returns the encoded target as an (n x 1) matrix, the shape Fit expects.
func (t *Table) Y() *mat.Dense {
	n := t.y.Len()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, t.y.AtVec(i))
	}
	return out
}

// YVec returns the encoded target vector, the shape metrics expect.
func (t *Table) YVec() *mat.VecDense {
	return t.y
}

// Classes returns the target levels in encoding order: Classes()[0] is the
// negative class for a binary target.
func (t *Table) Classes() []string {
	out := make([]string, len(t.classes))
	copy(out, t.classes)
	return out
}

// ClassName maps an encoded label back to its level, "?" when out of range.
func (t *Table) ClassName(encoded float64) string {
	i := int(encoded)
	if i < 0 || i >= len(t.classes) {
		return "?"
	}
	return t.classes[i]
}

// Split partitions the table into disjoint train and test subsets. testRatio
// is the fraction of records assigned to test, rounded down but at least one
// record per side for any ratio in (0, 1). The shuffle is reproducible when
// seeded.
func (t *Table) Split(testRatio float64, seeded bool, seed uint64) (train, test *Table, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, errors.NewValidationError("test_ratio", "must be in (0, 1)", testRatio)
	}
	n := t.NSamples()
	if n < 2 {
		return nil, nil, errors.NewValueError("Table.Split", "need at least 2 records to split")
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	shuffle := rand.Shuffle
	if seeded {
		r := rand.New(rand.NewPCG(seed, seed))
		shuffle = r.Shuffle
	}
	shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	nTest := int(float64(n) * testRatio)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	test, err = t.subset(perm[:nTest])
	if err != nil {
		return nil, nil, err
	}
	train, err = t.subset(perm[nTest:])
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// subset builds a new Table from the given row indices.
func (t *Table) subset(indices []int) (*Table, error) {
	_, c := t.x.Dims()
	x := mat.NewDense(len(indices), c, nil)
	y := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		for j := 0; j < c; j++ {
			x.Set(i, j, t.x.At(idx, j))
		}
		y.SetVec(i, t.y.AtVec(idx))
	}
	return NewTable(t.featureNames, x, y, t.classes)
}
