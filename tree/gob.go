package tree

import (
	"bytes"
	"encoding/gob"
)

// treeState はgobシリアライズ用の学習済み状態のスナップショット。
// 非公開フィールドを持つDecisionTreeClassifierをmodel.SaveModelで
// 保存できるようにするための中間表現。
type treeState struct {
	Criterion       string
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int

	Fitted      bool
	NFeatures   int
	Root        *Node
	Classes     []float64
	Importances []float64
	Depth       int
	NLeaves     int
}

// GobEncode implements gob.GobEncoder.
func (dt *DecisionTreeClassifier) GobEncode() ([]byte, error) {
	state := treeState{
		Criterion:       dt.criterion,
		MaxDepth:        dt.maxDepth,
		MinSamplesSplit: dt.minSamplesSplit,
		MinSamplesLeaf:  dt.minSamplesLeaf,
		Fitted:          dt.IsFitted(),
		NFeatures:       dt.NFeaturesIn(),
		Root:            dt.root,
		Classes:         dt.classes_,
		Importances:     dt.importances_,
		Depth:           dt.depth_,
		NLeaves:         dt.nLeaves_,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (dt *DecisionTreeClassifier) GobDecode(data []byte) error {
	var state treeState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}

	dt.criterion = state.Criterion
	dt.maxDepth = state.MaxDepth
	dt.minSamplesSplit = state.MinSamplesSplit
	dt.minSamplesLeaf = state.MinSamplesLeaf
	dt.root = state.Root
	dt.classes_ = state.Classes
	dt.nClasses_ = len(state.Classes)
	dt.importances_ = state.Importances
	dt.depth_ = state.Depth
	dt.nLeaves_ = state.NLeaves

	dt.Reset()
	if state.Fitted {
		dt.SetNFeaturesIn(state.NFeatures)
		dt.SetFitted()
	}
	return nil
}
