package classifier

import "github.com/hupe1980/weaklabel/model"

// SparseVector is a feature vector with sorted, unique indices.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// Dot returns the dot product with a dense vector. Indices outside w are ignored.
func (v SparseVector) Dot(w []float64) float64 {
	sum := 0.0
	for i, idx := range v.Indices {
		if idx < len(w) {
			sum += v.Values[i] * w[idx]
		}
	}
	return sum
}

// Classifier is a trainable text classifier over sparse features.
type Classifier interface {
	Fit(X []SparseVector, y []model.Label) error
	PredictProba(X []SparseVector) ([][]float64, error)
	Predict(X []SparseVector) ([]model.Label, error)
}
