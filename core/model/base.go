package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は全てのモデルの基底となる構造体。
// 学習状態と学習時の特徴量数を保持し、推論時の形状検証に利用される。
type BaseEstimator struct {
	state       EstimatorState
	nFeaturesIn int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
	e.nFeaturesIn = 0
}

// SetNFeaturesIn は学習時に観測した特徴量数を記録する
func (e *BaseEstimator) SetNFeaturesIn(n int) {
	e.nFeaturesIn = n
}

// NFeaturesIn は学習時に観測した特徴量数を返す（未学習なら0）
func (e *BaseEstimator) NFeaturesIn() int {
	return e.nFeaturesIn
}
