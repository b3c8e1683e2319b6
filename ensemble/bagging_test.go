package ensemble

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// trainingData returns a small linearly separable binary dataset.
func trainingData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		0.5, 0.5,
		4, 4,
		4, 5,
		5, 4,
		5, 5,
		4.5, 4.5,
	})
	y := mat.NewDense(10, 1, []float64{
		0, 0, 0, 0, 0,
		1, 1, 1, 1, 1,
	})
	return X, y
}

func TestBaggingClassifier_FitPredict(t *testing.T) {
	X, y := trainingData()

	clf := NewBaggingClassifier(
		WithNEstimators(15),
		WithMaxDepth(3),
		WithSeed(42),
	)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if len(clf.Estimators()) != 15 {
		t.Fatalf("Expected 15 fitted members, got %d", len(clf.Estimators()))
	}

	XTest := mat.NewDense(2, 2, []float64{
		0.2, 0.2, // should be class 0
		4.8, 4.8, // should be class 1
	})
	pred, err := clf.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if pred.At(0, 0) != 0 {
		t.Errorf("Test point (0.2,0.2) should be class 0, got %v", pred.At(0, 0))
	}
	if pred.At(1, 0) != 1 {
		t.Errorf("Test point (4.8,4.8) should be class 1, got %v", pred.At(1, 0))
	}
}

func TestBaggingClassifier_EstimatorPredictions_Shape(t *testing.T) {
	X, y := trainingData()

	clf := NewBaggingClassifier(WithNEstimators(7), WithSeed(1))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	preds, err := clf.EstimatorPredictions(X)
	if err != nil {
		t.Fatalf("Failed to build prediction matrix: %v", err)
	}
	r, c := preds.Dims()
	if r != 10 || c != 7 {
		t.Errorf("Expected prediction matrix shape (10, 7), got (%d, %d)", r, c)
	}
}

// TestBaggingClassifier_MajorityVote checks the aggregation rule directly on
// prediction-matrix rows.
func TestBaggingClassifier_MajorityVote(t *testing.T) {
	clf := &BaggingClassifier{
		nEstimators: 3,
		classes_:    []float64{0, 1},
		nClasses_:   2,
	}

	tests := []struct {
		name string
		row  []float64
		want float64
	}{
		{name: "odd majority yes", row: []float64{1, 1, 0}, want: 1},
		{name: "odd majority no", row: []float64{0, 0, 1}, want: 0},
		{name: "unanimous", row: []float64{1, 1, 1}, want: 1},
		// Even member count with an exact tie: resolves to the negative
		// (lower) class, a fixed policy rather than an arbitrary pick.
		{name: "even tie resolves negative", row: []float64{1, 0}, want: 0},
		{name: "even tie larger", row: []float64{1, 0, 1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clf.vote(tt.row); got != tt.want {
				t.Errorf("vote(%v) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}

// TestBaggingClassifier_TieBreak_EndToEnd builds a 2-member ensemble whose
// members disagree on a probe point and checks that the aggregate answer is
// the negative class.
func TestBaggingClassifier_TieBreak_EndToEnd(t *testing.T) {
	X, y := trainingData()

	// Search seeds for a 2-member ensemble whose members disagree on the
	// probe. With only 10 training rows most seeds produce diverse trees.
	probe := mat.NewDense(1, 2, []float64{2.5, 2.5})
	for seed := uint64(0); seed < 200; seed++ {
		clf := NewBaggingClassifier(WithNEstimators(2), WithMaxDepth(2), WithSeed(seed))
		if err := clf.Fit(X, y); err != nil {
			t.Fatalf("Failed to fit: %v", err)
		}
		preds, err := clf.EstimatorPredictions(probe)
		if err != nil {
			t.Fatalf("Failed to predict: %v", err)
		}
		if preds.At(0, 0) == preds.At(0, 1) {
			continue // members agree, no tie to exercise
		}

		final, err := clf.Predict(probe)
		if err != nil {
			t.Fatalf("Failed to predict: %v", err)
		}
		if final.At(0, 0) != 0 {
			t.Fatalf("Tied vote must resolve to class 0, got %v (seed %d)", final.At(0, 0), seed)
		}
		return
	}
	t.Skip("no seed produced disagreeing members; vote tie covered by TestBaggingClassifier_MajorityVote")
}

func TestBaggingClassifier_Reproducible(t *testing.T) {
	X, y := trainingData()
	XTest := mat.NewDense(3, 2, []float64{
		0.3, 0.3,
		2.5, 2.5,
		4.7, 4.7,
	})

	run := func(nJobs int) *mat.Dense {
		clf := NewBaggingClassifier(
			WithNEstimators(20),
			WithMaxDepth(4),
			WithSeed(99),
			WithNJobs(nJobs),
		)
		if err := clf.Fit(X, y); err != nil {
			t.Fatalf("Failed to fit: %v", err)
		}
		preds, err := clf.EstimatorPredictions(XTest)
		if err != nil {
			t.Fatalf("Failed to predict: %v", err)
		}
		return preds
	}

	first := run(1)
	second := run(1)
	parallel := run(4)

	if !mat.Equal(first, second) {
		t.Error("Two sequential runs with the same seed produced different prediction matrices")
	}
	if !mat.Equal(first, parallel) {
		t.Error("Parallel training changed the fitted model for a fixed seed")
	}
}

func TestBaggingClassifier_PredictProba(t *testing.T) {
	X, y := trainingData()

	clf := NewBaggingClassifier(WithNEstimators(9), WithSeed(3))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	probas, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	r, c := probas.Dims()
	if r != 10 || c != 2 {
		t.Fatalf("Expected probas shape (10, 2), got (%d, %d)", r, c)
	}
	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			p := probas.At(i, j)
			if p < 0 || p > 1 {
				t.Errorf("Invalid vote share at (%d, %d): %v", i, j, p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Vote shares for sample %d don't sum to 1: %v", i, sum)
		}
	}
}

func TestBaggingClassifier_OOBScore(t *testing.T) {
	X, y := trainingData()

	clf := NewBaggingClassifier(
		WithNEstimators(50),
		WithSeed(7),
		WithOOBScore(true),
	)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	oob := clf.OOBScore()
	if oob < 0 || oob > 1 {
		t.Errorf("OOB score outside [0, 1]: %v", oob)
	}
	// The dataset is cleanly separable, so out-of-bag voting should do much
	// better than chance.
	if oob < 0.6 {
		t.Errorf("OOB score suspiciously low for separable data: %v", oob)
	}
}

func TestBaggingClassifier_SingleClassResample(t *testing.T) {
	// Two samples, m large: some bootstrap resamples will contain one class
	// only. The fit must tolerate them.
	X := mat.NewDense(2, 1, []float64{0, 1})
	y := mat.NewDense(2, 1, []float64{0, 1})

	clf := NewBaggingClassifier(WithNEstimators(30), WithSeed(5))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit must tolerate single-class resamples: %v", err)
	}
	if len(clf.Estimators()) != 30 {
		t.Errorf("Expected 30 members, got %d", len(clf.Estimators()))
	}
}

func TestBaggingClassifier_NotFitted(t *testing.T) {
	clf := NewBaggingClassifier()
	X := mat.NewDense(1, 2, []float64{1, 2})

	if _, err := clf.Predict(X); err == nil {
		t.Error("Expected error when predicting without fitting")
	}
	if _, err := clf.EstimatorPredictions(X); err == nil {
		t.Error("Expected error when requesting prediction matrix without fitting")
	}
	if _, err := clf.PredictProba(X); err == nil {
		t.Error("Expected error when predicting probabilities without fitting")
	}
}

func TestBaggingClassifier_GetSetParams(t *testing.T) {
	clf := NewBaggingClassifier()

	params := clf.GetParams()
	if params["n_estimators"].(int) != 100 {
		t.Errorf("Default n_estimators should be 100, got %v", params["n_estimators"])
	}
	if params["criterion"].(string) != "gini" {
		t.Errorf("Default criterion should be 'gini', got %v", params["criterion"])
	}

	err := clf.SetParams(map[string]interface{}{
		"n_estimators": 25,
		"criterion":    "entropy",
		"max_depth":    4,
	})
	if err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}
	if clf.nEstimators != 25 {
		t.Errorf("n_estimators not updated: expected 25, got %v", clf.nEstimators)
	}
	if clf.criterion != "entropy" {
		t.Errorf("criterion not updated: expected 'entropy', got %v", clf.criterion)
	}
	if clf.maxDepth != 4 {
		t.Errorf("max_depth not updated: expected 4, got %v", clf.maxDepth)
	}

	if err := clf.SetParams(map[string]interface{}{"bogus": 1}); err == nil {
		t.Error("Expected error for unknown parameter")
	}
}

func TestBaggingClassifier_ClassNames(t *testing.T) {
	X, y := trainingData()

	clf := NewBaggingClassifier(WithNEstimators(5), WithSeed(2))

	if err := clf.SetClassNames([]string{"no", "yes"}); err == nil {
		t.Error("Expected error when attaching class names before fitting")
	}

	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if err := clf.SetClassNames([]string{"no"}); err == nil {
		t.Error("Expected error for a name count not matching the class count")
	}
	if err := clf.SetClassNames([]string{"no", "yes"}); err != nil {
		t.Fatalf("Failed to set class names: %v", err)
	}

	if got := clf.ClassName(0); got != "no" {
		t.Errorf("ClassName(0) = %q, want \"no\"", got)
	}
	if got := clf.ClassName(1); got != "yes" {
		t.Errorf("ClassName(1) = %q, want \"yes\"", got)
	}
	// Labels outside the training encoding fall back to their numeric form.
	if got := clf.ClassName(7); got != "7" {
		t.Errorf("ClassName(7) = %q, want \"7\"", got)
	}
}

// TestBaggingClassifier_ClassNames_SurviveGob checks that a loaded model
// decodes predictions with the training-time encoding. Re-deriving the
// mapping from an inference dataset would invert or lose labels whenever its
// target levels differ from training.
func TestBaggingClassifier_ClassNames_SurviveGob(t *testing.T) {
	X, y := trainingData()

	clf := NewBaggingClassifier(WithNEstimators(5), WithSeed(13))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if err := clf.SetClassNames([]string{"no", "yes"}); err != nil {
		t.Fatalf("Failed to set class names: %v", err)
	}

	data, err := clf.GobEncode()
	if err != nil {
		t.Fatalf("GobEncode failed: %v", err)
	}
	restored := NewBaggingClassifier()
	if err := restored.GobDecode(data); err != nil {
		t.Fatalf("GobDecode failed: %v", err)
	}

	names := restored.ClassNames()
	if len(names) != 2 || names[0] != "no" || names[1] != "yes" {
		t.Fatalf("ClassNames() after round trip = %v, want [no yes]", names)
	}
	if got := restored.ClassName(1); got != "yes" {
		t.Errorf("Restored ClassName(1) = %q, want \"yes\"", got)
	}
	if got := restored.ClassName(0); got != "no" {
		t.Errorf("Restored ClassName(0) = %q, want \"no\"", got)
	}
}

// panicMatrix reports a valid shape but panics on element access, standing in
// for a data source that blows up mid-fit.
type panicMatrix struct {
	r, c int
}

func (m panicMatrix) Dims() (int, int)    { return m.r, m.c }
func (m panicMatrix) At(i, j int) float64 { panic("broken matrix") }
func (m panicMatrix) T() mat.Matrix       { return mat.Transpose{Matrix: m} }

func TestBaggingClassifier_MemberPanicSurfacesAsError(t *testing.T) {
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	// A panic inside a worker goroutine cannot be recovered by Fit's own
	// deferred handler, so it must be converted to an error at the member
	// boundary instead of crashing the process.
	clf := NewBaggingClassifier(WithNEstimators(8), WithSeed(3), WithNJobs(4))
	err := clf.Fit(panicMatrix{r: 4, c: 2}, y)
	if err == nil {
		t.Fatal("Expected error from a panicking member fit, got nil")
	}
	if clf.IsFitted() {
		t.Error("Ensemble must not report fitted after a failed fit")
	}
}

func TestBaggingClassifier_GobRoundTrip(t *testing.T) {
	X, y := trainingData()

	clf := NewBaggingClassifier(WithNEstimators(10), WithSeed(11))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	data, err := clf.GobEncode()
	if err != nil {
		t.Fatalf("GobEncode failed: %v", err)
	}

	restored := NewBaggingClassifier()
	if err := restored.GobDecode(data); err != nil {
		t.Fatalf("GobDecode failed: %v", err)
	}
	if !restored.IsFitted() {
		t.Fatal("Restored ensemble should be fitted")
	}

	want, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict with original: %v", err)
	}
	got, err := restored.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict with restored ensemble: %v", err)
	}
	if !mat.Equal(want, got) {
		t.Error("Restored ensemble predictions differ from original")
	}
}
