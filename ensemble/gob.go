package ensemble

import (
	"bytes"
	"encoding/gob"

	"github.com/KoheiTanaka/bago/tree"
)

// baggingState はgobシリアライズ用の学習済み状態のスナップショット。
// メンバーの木はtree側のGobEncoder実装経由でネストして保存される。
type baggingState struct {
	NEstimators     int
	Criterion       string
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seeded          bool
	Seed            uint64
	NJobs           int
	OOBEnabled      bool

	Fitted     bool
	NFeatures  int
	Estimators []*tree.DecisionTreeClassifier
	Samples    [][]int
	Classes    []float64
	ClassNames []string
	OOBScore   float64
}

// GobEncode implements gob.GobEncoder.
func (b *BaggingClassifier) GobEncode() ([]byte, error) {
	state := baggingState{
		NEstimators:     b.nEstimators,
		Criterion:       b.criterion,
		MaxDepth:        b.maxDepth,
		MinSamplesSplit: b.minSamplesSplit,
		MinSamplesLeaf:  b.minSamplesLeaf,
		Seeded:          b.seeded,
		Seed:            b.seed,
		NJobs:           b.nJobs,
		OOBEnabled:      b.oobScore,
		Fitted:          b.IsFitted(),
		NFeatures:       b.NFeaturesIn(),
		Estimators:      b.estimators_,
		Samples:         b.samples_,
		Classes:         b.classes_,
		ClassNames:      b.classNames_,
		OOBScore:        b.oobScore_,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (b *BaggingClassifier) GobDecode(data []byte) error {
	var state baggingState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}

	b.nEstimators = state.NEstimators
	b.criterion = state.Criterion
	b.maxDepth = state.MaxDepth
	b.minSamplesSplit = state.MinSamplesSplit
	b.minSamplesLeaf = state.MinSamplesLeaf
	b.seeded = state.Seeded
	b.seed = state.Seed
	b.nJobs = state.NJobs
	b.oobScore = state.OOBEnabled
	b.estimators_ = state.Estimators
	b.samples_ = state.Samples
	b.classes_ = state.Classes
	b.classNames_ = state.ClassNames
	b.nClasses_ = len(state.Classes)
	b.oobScore_ = state.OOBScore

	b.Reset()
	if state.Fitted {
		b.SetNFeaturesIn(state.NFeatures)
		b.SetFitted()
	}
	return nil
}
