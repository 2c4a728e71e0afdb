// Package pseudolabel turns label model posteriors into a training set.
//
// Examples that no labeling function voted on carry no evidence and are
// dropped. The remaining examples keep their original order and receive the
// arg-max of their distribution as a hard label.
package pseudolabel

import (
	"fmt"
	"math"

	"github.com/hupe1980/weaklabel/internal/voteindex"
	"github.com/hupe1980/weaklabel/model"
)

// DefaultTolerance is the distance from uniform below which a distribution is
// treated as carrying no evidence.
const DefaultTolerance = 1e-9

// ShapeError indicates inputs of different lengths.
type ShapeError struct {
	Examples, Probs, Rows int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch: %d examples, %d distributions, %d matrix rows", e.Examples, e.Probs, e.Rows)
}

// Filtered is the training subset. All slices are parallel.
type Filtered struct {
	Examples []model.Example
	Labels   []model.Label
	Probs    [][]float64
	// Indices are the positions of the kept examples in the input.
	Indices []int
}

// Len returns the number of kept examples.
func (f *Filtered) Len() int { return len(f.Examples) }

// Dropped returns how many of total inputs were removed.
func (f *Filtered) Dropped(total int) int { return total - len(f.Examples) }

// FilterUnlabeled keeps the examples on which at least one function cast a
// vote of the sentiment label space.
// L may be nil, in which case rows whose distribution is uniform are dropped.
func FilterUnlabeled(examples []model.Example, probs [][]float64, L *model.LabelMatrix) (*Filtered, error) {
	if len(examples) != len(probs) || (L != nil && L.Rows() != len(examples)) {
		rows := len(examples)
		if L != nil {
			rows = L.Rows()
		}
		return nil, &ShapeError{Examples: len(examples), Probs: len(probs), Rows: rows}
	}

	f := &Filtered{}
	if L != nil {
		for i := range voteindex.Build(L, model.Cardinality).CoveredRows() {
			f.add(examples[i], probs[i], i)
		}
		return f, nil
	}
	for i, dist := range probs {
		if !IsUniform(dist, DefaultTolerance) {
			f.add(examples[i], dist, i)
		}
	}
	return f, nil
}

func (f *Filtered) add(ex model.Example, dist []float64, i int) {
	label, _ := model.ArgMax(dist)
	f.Examples = append(f.Examples, ex)
	f.Labels = append(f.Labels, label)
	f.Probs = append(f.Probs, dist)
	f.Indices = append(f.Indices, i)
}

// ProbsToPreds returns the arg-max of every distribution. Ties go to the
// lowest class index.
func ProbsToPreds(probs [][]float64) []model.Label {
	preds := make([]model.Label, len(probs))
	for i, dist := range probs {
		preds[i], _ = model.ArgMax(dist)
	}
	return preds
}

// IsUniform reports whether every entry of dist is within tol of 1/len(dist).
func IsUniform(dist []float64, tol float64) bool {
	if len(dist) == 0 {
		return false
	}
	u := 1 / float64(len(dist))
	for _, p := range dist {
		if math.Abs(p-u) > tol {
			return false
		}
	}
	return true
}

// Distribution counts the labels of a filtered set.
func (f *Filtered) Distribution() map[model.Label]int {
	counts := make(map[model.Label]int)
	for _, l := range f.Labels {
		counts[l]++
	}
	return counts
}
