package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// vec builds a VecDense, returning nil for an empty slice so error paths can
// be exercised from the same tables.
func vec(values []float64) *mat.VecDense {
	if len(values) == 0 {
		return nil
	}
	return mat.NewVecDense(len(values), values)
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "perfectly ranked",
			yTrue: []float64{0, 0, 1, 1, 1},
			yPred: []float64{0.2, 0.3, 0.6, 0.7, 0.95},
			want:  1.0,
		},
		{
			name:  "ranking fully reversed",
			yTrue: []float64{1, 1, 0, 0},
			yPred: []float64{0.1, 0.2, 0.8, 0.9},
			want:  0.0,
		},
		{
			name:  "constant score",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0.5, 0.5, 0.5, 0.5},
			want:  0.5,
		},
		{
			name:  "one misranked pair",
			yTrue: []float64{0, 1, 0, 1},
			yPred: []float64{0.1, 0.2, 0.6, 0.9},
			want:  0.75,
		},
		{
			name:  "tied score across classes",
			yTrue: []float64{0, 1, 0, 1},
			yPred: []float64{0.3, 0.3, 0.7, 0.9},
			want:  0.625,
		},
		{
			name:  "only positives present",
			yTrue: []float64{1, 1, 1},
			yPred: []float64{0.2, 0.5, 0.8},
			want:  0.5, // undefined, reported as chance level
		},
		{
			name:  "only negatives present",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{0.2, 0.5, 0.8},
			want:  0.5, // undefined, reported as chance level
		},
		{
			name:    "labels outside {0,1}",
			yTrue:   []float64{0, 2, 1},
			yPred:   []float64{0.2, 0.5, 0.8},
			wantErr: true,
		},
		{
			name:    "length mismatch",
			yTrue:   []float64{0, 1, 1},
			yPred:   []float64{0.4, 0.6},
			wantErr: true,
		},
		{
			name:    "empty input",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(vec(tt.yTrue), vec(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("AUC() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("AUC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAUCMatrix(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   mat.Matrix
		yPred   mat.Matrix
		want    float64
		wantErr bool
	}{
		{
			name:  "column matrices",
			yTrue: mat.NewDense(4, 1, []float64{0, 1, 0, 1}),
			yPred: mat.NewDense(4, 1, []float64{0.3, 0.3, 0.7, 0.9}),
			want:  0.625,
		},
		{
			name: "extra columns ignored",
			yTrue: mat.NewDense(4, 2, []float64{
				0, 5,
				1, 5,
				0, 5,
				1, 5,
			}),
			yPred: mat.NewDense(4, 2, []float64{
				0.1, 5,
				0.2, 5,
				0.6, 5,
				0.9, 5,
			}),
			want: 0.75,
		},
		{
			name:    "nil labels",
			yTrue:   nil,
			yPred:   mat.NewDense(1, 1, []float64{0.4}),
			wantErr: true,
		},
		{
			name:    "empty matrices",
			yTrue:   &mat.Dense{},
			yPred:   &mat.Dense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUCMatrix(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("AUCMatrix() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("AUCMatrix() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBinaryLogLoss(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "maximally uncertain",
			yTrue: []float64{0, 1, 0, 1},
			yPred: []float64{0.5, 0.5, 0.5, 0.5},
			want:  math.Ln2,
		},
		{
			name:  "confident and right",
			yTrue: []float64{0, 1},
			yPred: []float64{0.05, 0.95},
			want:  0.051293,
		},
		{
			name:  "confident and wrong",
			yTrue: []float64{1, 0},
			yPred: []float64{0.1, 0.9},
			want:  2.302585,
		},
		{
			name:  "hard probabilities get clipped",
			yTrue: []float64{0, 1},
			yPred: []float64{0, 1},
			want:  0.0, // epsilon away from zero, never -Inf
		},
		{
			name:  "mixed confidence",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0.2, 0.3, 0.7, 0.6},
			want:  0.361829,
		},
		{
			name:    "labels outside {0,1}",
			yTrue:   []float64{0, 0.5, 1},
			yPred:   []float64{0.2, 0.5, 0.8},
			wantErr: true,
		},
		{
			name:    "empty input",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinaryLogLoss(vec(tt.yTrue), vec(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("BinaryLogLoss() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 0.01 {
				t.Errorf("BinaryLogLoss() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassificationError(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "all correct",
			yTrue: []float64{2, 0, 1, 1, 2},
			yPred: []float64{2, 0, 1, 1, 2},
			want:  0.0,
		},
		{
			name:  "two of eight wrong",
			yTrue: []float64{0, 1, 2, 0, 1, 2, 0, 1},
			yPred: []float64{0, 1, 0, 0, 1, 2, 2, 1},
			want:  0.25,
		},
		{
			name:  "every prediction wrong",
			yTrue: []float64{1, 1, 1},
			yPred: []float64{0, 2, 0},
			want:  1.0,
		},
		{
			name:  "coin-flip binary",
			yTrue: []float64{1, 1, 0, 0},
			yPred: []float64{1, 0, 0, 1},
			want:  0.5,
		},
		{
			name:    "empty input",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
		{
			name:    "length mismatch",
			yTrue:   []float64{0, 1, 0},
			yPred:   []float64{0, 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassificationError(vec(tt.yTrue), vec(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("ClassificationError() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ClassificationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "all correct",
			yTrue: []float64{2, 0, 1, 1, 2},
			yPred: []float64{2, 0, 1, 1, 2},
			want:  1.0,
		},
		{
			name:  "six of eight correct",
			yTrue: []float64{0, 1, 2, 0, 1, 2, 0, 1},
			yPred: []float64{0, 1, 0, 0, 1, 2, 2, 1},
			want:  0.75,
		},
		{
			name:  "none correct",
			yTrue: []float64{1, 1, 1},
			yPred: []float64{0, 2, 0},
			want:  0.0,
		},
		{
			name:    "empty input",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(vec(tt.yTrue), vec(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

// benchVectors builds n labels split evenly between the classes with scores
// ramping across the unit interval.
func benchVectors(n int) (*mat.VecDense, *mat.VecDense) {
	yTrue := make([]float64, n)
	yPred := make([]float64, n)
	for i := range yTrue {
		if i >= n/2 {
			yTrue[i] = 1
		}
		yPred[i] = (float64(i) + 0.5) / float64(n)
	}
	return mat.NewVecDense(n, yTrue), mat.NewVecDense(n, yPred)
}

func BenchmarkAUC(b *testing.B) {
	yTrue, yPred := benchVectors(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AUC(yTrue, yPred)
	}
}

func BenchmarkBinaryLogLoss(b *testing.B) {
	yTrue, yPred := benchVectors(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = BinaryLogLoss(yTrue, yPred)
	}
}
