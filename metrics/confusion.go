// Confusion matrix and the derived binary classification metrics, plus the
// performance report used to compare ensemble members against the aggregate.
package metrics

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/KoheiTanaka/bago/pkg/errors"
)

// ConfusionMatrix is the cross-tabulation of predicted vs actual binary
// labels. The positive class is fixed at construction; everything else counts
// as negative.
type ConfusionMatrix struct {
	TP int // positive predicted positive
	TN int // negative predicted negative
	FP int // negative predicted positive
	FN int // positive predicted negative
}

// NewConfusionMatrix computes the confusion matrix for binary predictions.
// Labels equal to positive count as the positive class.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense, positive float64) (*ConfusionMatrix, error) {
	if yTrue == nil || yPred == nil {
		return nil, errors.NewValueError("NewConfusionMatrix", "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("NewConfusionMatrix", n, yPred.Len(), 0)
	}

	cm := &ConfusionMatrix{}
	for i := 0; i < n; i++ {
		actualPos := yTrue.AtVec(i) == positive
		predictedPos := yPred.AtVec(i) == positive
		switch {
		case actualPos && predictedPos:
			cm.TP++
		case actualPos && !predictedPos:
			cm.FN++
		case !actualPos && predictedPos:
			cm.FP++
		default:
			cm.TN++
		}
	}
	return cm, nil
}

// Total returns the number of classified samples.
func (cm *ConfusionMatrix) Total() int {
	return cm.TP + cm.TN + cm.FP + cm.FN
}

// Accuracy returns (TP+TN) / total.
func (cm *ConfusionMatrix) Accuracy() float64 {
	return float64(cm.TP+cm.TN) / float64(cm.Total())
}

// ErrorRate returns 1 - Accuracy.
func (cm *ConfusionMatrix) ErrorRate() float64 {
	return 1.0 - cm.Accuracy()
}

// Sensitivity returns the true positive rate TP / (TP+FN). Equal to Recall.
// Returns 0 with a warning when no actual positives exist.
func (cm *ConfusionMatrix) Sensitivity() float64 {
	if cm.TP+cm.FN == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("sensitivity", "no actual positives", 0))
		return 0
	}
	return float64(cm.TP) / float64(cm.TP+cm.FN)
}

// Recall is an alias for Sensitivity.
func (cm *ConfusionMatrix) Recall() float64 {
	return cm.Sensitivity()
}

// Specificity returns the true negative rate TN / (TN+FP).
// Returns 0 with a warning when no actual negatives exist.
func (cm *ConfusionMatrix) Specificity() float64 {
	if cm.TN+cm.FP == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("specificity", "no actual negatives", 0))
		return 0
	}
	return float64(cm.TN) / float64(cm.TN+cm.FP)
}

// Precision returns TP / (TP+FP).
// Returns 0 with a warning when nothing was predicted positive.
func (cm *ConfusionMatrix) Precision() float64 {
	if cm.TP+cm.FP == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0
	}
	return float64(cm.TP) / float64(cm.TP+cm.FP)
}

// F1 returns the harmonic mean of precision and recall.
// Returns 0 with a warning when both are 0.
func (cm *ConfusionMatrix) F1() float64 {
	p := cm.Precision()
	r := cm.Recall()
	if p+r == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall are both zero", 0))
		return 0
	}
	return 2 * p * r / (p + r)
}

// Performance is the named set of scalar metrics derived from one confusion
// matrix.
type Performance struct {
	Accuracy    float64
	ErrorRate   float64
	Sensitivity float64
	Specificity float64
	Precision   float64
	Recall      float64
	F1          float64
}

// MetricNames lists the metrics a Performance record carries, in report
// column order.
var MetricNames = []string{
	"accuracy", "error_rate", "sensitivity", "specificity", "precision", "recall", "f1",
}

// Value returns the named metric, false for an unknown name.
func (p Performance) Value(metric string) (float64, bool) {
	switch metric {
	case "accuracy":
		return p.Accuracy, true
	case "error_rate":
		return p.ErrorRate, true
	case "sensitivity":
		return p.Sensitivity, true
	case "specificity":
		return p.Specificity, true
	case "precision":
		return p.Precision, true
	case "recall":
		return p.Recall, true
	case "f1":
		return p.F1, true
	}
	return 0, false
}

// Evaluate derives the full Performance record from predictions and ground
// truth. Pure computation, inputs are not mutated.
func Evaluate(yTrue, yPred *mat.VecDense, positive float64) (Performance, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred, positive)
	if err != nil {
		return Performance{}, errors.Wrap(err, "Evaluate")
	}
	return Performance{
		Accuracy:    cm.Accuracy(),
		ErrorRate:   cm.ErrorRate(),
		Sensitivity: cm.Sensitivity(),
		Specificity: cm.Specificity(),
		Precision:   cm.Precision(),
		Recall:      cm.Recall(),
		F1:          cm.F1(),
	}, nil
}

// Report collects one Performance row per model, keyed by model identifier,
// plus exactly one aggregate row. Member rows keep insertion order.
type Report struct {
	names     []string
	members   map[string]Performance
	aggregate *Performance
	aggName   string
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{members: make(map[string]Performance)}
}

// AddMember records the performance of one individual model. Re-adding a name
// overwrites its row.
func (r *Report) AddMember(name string, p Performance) {
	if _, exists := r.members[name]; !exists {
		r.names = append(r.names, name)
	}
	r.members[name] = p
}

// SetAggregate records the single aggregate row. Calling it again replaces
// the previous aggregate, so the report never holds more than one.
func (r *Report) SetAggregate(name string, p Performance) {
	r.aggName = name
	r.aggregate = &p
}

// Members returns the member names in insertion order.
func (r *Report) Members() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Member returns the row for one model.
func (r *Report) Member(name string) (Performance, bool) {
	p, ok := r.members[name]
	return p, ok
}

// Aggregate returns the aggregate row, false if none was set.
func (r *Report) Aggregate() (string, Performance, bool) {
	if r.aggregate == nil {
		return "", Performance{}, false
	}
	return r.aggName, *r.aggregate, true
}

// NRows returns the total number of rows including the aggregate.
func (r *Report) NRows() int {
	n := len(r.names)
	if r.aggregate != nil {
		n++
	}
	return n
}

// MemberValues returns the per-member values of one metric, in insertion
// order. Used to plot metric distributions against the aggregate.
func (r *Report) MemberValues(metric string) ([]float64, error) {
	if !validMetric(metric) {
		return nil, errors.NewValueError("Report.MemberValues", fmt.Sprintf("unknown metric %q", metric))
	}
	out := make([]float64, 0, len(r.names))
	for _, name := range r.names {
		v, _ := r.members[name].Value(metric)
		out = append(out, v)
	}
	return out, nil
}

// String renders the report as a fixed-width text table, members first in
// insertion order, aggregate last. Insertion order keeps numbered member
// names sequential regardless of how many digits the ensemble size needs.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-14s", "model")
	for _, m := range MetricNames {
		fmt.Fprintf(&sb, " %11s", m)
	}
	sb.WriteByte('\n')

	for _, name := range r.names {
		writeRow(&sb, name, r.members[name])
	}
	if r.aggregate != nil {
		writeRow(&sb, r.aggName, *r.aggregate)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, name string, p Performance) {
	fmt.Fprintf(sb, "%-14s", name)
	for _, m := range MetricNames {
		v, _ := p.Value(m)
		fmt.Fprintf(sb, " %11.4f", v)
	}
	sb.WriteByte('\n')
}

func validMetric(metric string) bool {
	for _, m := range MetricNames {
		if m == metric {
			return true
		}
	}
	return false
}
