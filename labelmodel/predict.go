package labelmodel

import (
	"fmt"
	"math"

	"github.com/hupe1980/weaklabel/model"
)

// PredictProba returns one class distribution per row of L.
func (m *LabelModel) PredictProba(L *model.LabelMatrix) ([][]float64, error) {
	if err := m.checkInput(L); err != nil {
		return nil, err
	}

	out := make([][]float64, L.Rows())
	for i := range out {
		dist, err := m.posterior(L.Row(i))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = dist
	}
	return out, nil
}

// Predict returns the most probable class per row. Ties go to the lowest
// class index, so rows without evidence predict class 0.
func (m *LabelModel) Predict(L *model.LabelMatrix) ([]model.Label, error) {
	probs, err := m.PredictProba(L)
	if err != nil {
		return nil, err
	}
	preds := make([]model.Label, len(probs))
	for i, dist := range probs {
		preds[i], _ = model.ArgMax(dist)
	}
	return preds, nil
}

// PredictRow returns the class distribution for a single row of votes.
func (m *LabelModel) PredictRow(votes []model.Label) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if len(votes) != m.numFns {
		return nil, &ShapeError{Expected: m.numFns, Actual: len(votes)}
	}
	for j, v := range votes {
		if v < model.Abstain || int(v) >= m.cfg.Cardinality {
			return nil, &InvalidVoteError{Row: 0, Col: j, Vote: v}
		}
	}
	return m.posterior(votes)
}

func (m *LabelModel) checkInput(L *model.LabelMatrix) error {
	if !m.fitted {
		return ErrNotFitted
	}
	if L.Cols() != m.numFns {
		return &ShapeError{Expected: m.numFns, Actual: L.Cols()}
	}
	return validateVotes(L, m.cfg.Cardinality)
}

// posterior combines the prior and the votes of informative functions in log
// space. Rows without evidence get the uniform distribution.
func (m *LabelModel) posterior(votes []model.Label) ([]float64, error) {
	c := m.cfg.Cardinality
	logits := make([]float64, c)
	copy(logits, m.logPrior)

	evidence := false
	for j, v := range votes {
		if v == model.Abstain || !m.informative[j] {
			continue
		}
		evidence = true
		for k := 0; k < c; k++ {
			logits[k] += m.logCPT[j][v][k]
		}
	}
	if !evidence {
		return model.Uniform(c), nil
	}

	top := math.Inf(-1)
	for _, l := range logits {
		if math.IsNaN(l) {
			return nil, ErrNumericalInstability
		}
		top = max(top, l)
	}
	if math.IsInf(top, 0) {
		return nil, fmt.Errorf("%w: votes are impossible under every class", ErrNumericalInstability)
	}

	sum := 0.0
	for k, l := range logits {
		logits[k] = math.Exp(l - top)
		sum += logits[k]
	}
	for k := range logits {
		logits[k] /= sum
		if math.IsNaN(logits[k]) || math.IsInf(logits[k], 0) {
			return nil, ErrNumericalInstability
		}
	}
	return logits, nil
}
