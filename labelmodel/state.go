package labelmodel

import (
	"fmt"
	"math"
	"slices"
)

// Params are the learned per-function conditional probability tables.
type Params struct {
	Cardinality  int
	ClassBalance []float64
	// CPT[j][v][k] is P(function j votes v | Y = k); v = 0 is abstain.
	CPT [][][]float64
	// Informative[j] is false for functions that never voted.
	Informative []bool
}

// Accuracy returns P(vote = Y | function j did not abstain).
func (p Params) Accuracy(j int) float64 {
	var correct, fired float64
	for k, pk := range p.ClassBalance {
		fired += pk * (1 - p.CPT[j][0][k])
		if k > 0 {
			correct += pk * p.CPT[j][k][k]
		}
	}
	if fired == 0 {
		return 0
	}
	return correct / fired
}

// Params returns a copy of the learned parameters.
func (m *LabelModel) Params() (Params, error) {
	if !m.fitted {
		return Params{}, ErrNotFitted
	}
	return Params{
		Cardinality:  m.cfg.Cardinality,
		ClassBalance: slices.Clone(m.prior),
		CPT:          cloneTables(m.cpt),
		Informative:  slices.Clone(m.informative),
	}, nil
}

// State is the serializable form of a fitted label model.
type State struct {
	Cardinality  int           `json:"cardinality"`
	ClassBalance []float64     `json:"class_balance"`
	CPT          [][][]float64 `json:"cpt"`
	Informative  []bool        `json:"informative"`
	Result       FitResult     `json:"result"`
}

// State exports the fitted model.
func (m *LabelModel) State() (*State, error) {
	p, err := m.Params()
	if err != nil {
		return nil, err
	}
	return &State{
		Cardinality:  p.Cardinality,
		ClassBalance: p.ClassBalance,
		CPT:          p.CPT,
		Informative:  p.Informative,
		Result:       m.result,
	}, nil
}

// FromState restores a fitted model. Its predictions equal those of the model
// the state was taken from.
func FromState(st *State, optFns ...Option) (*LabelModel, error) {
	if st == nil {
		return nil, &ConfigError{Field: "State", Reason: "must not be nil"}
	}
	cfg := DefaultConfig()
	cfg.Cardinality = st.Cardinality
	cfg.ClassBalance = slices.Clone(st.ClassBalance)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(st.Informative) != len(st.CPT) {
		return nil, &ConfigError{Field: "Informative", Reason: "must have one entry per function"}
	}

	c := st.Cardinality
	for j, table := range st.CPT {
		if err := validateTable(table, c); err != nil {
			return nil, &ConfigError{Field: "CPT", Reason: fmt.Sprintf("function %d: %v", j, err)}
		}
	}

	m := New(cfg, optFns...)
	m.setTables(len(st.CPT), cfg.prior(), cloneTables(st.CPT), slices.Clone(st.Informative))
	m.result = st.Result
	return m, nil
}

func validateTable(table [][]float64, c int) error {
	if len(table) != c {
		return fmt.Errorf("has %d rows, want %d", len(table), c)
	}
	for v, row := range table {
		if len(row) != c {
			return fmt.Errorf("row %d has %d columns, want %d", v, len(row), c)
		}
		for _, p := range row {
			if math.IsNaN(p) || p < 0 || p > 1 {
				return fmt.Errorf("row %d holds %v, not a probability", v, p)
			}
		}
	}
	for k := 0; k < c; k++ {
		sum := 0.0
		for v := 0; v < c; v++ {
			sum += table[v][k]
		}
		if math.Abs(sum-1) > 1e-6 {
			return fmt.Errorf("class %d sums to %v", k, sum)
		}
	}
	return nil
}

func cloneTables(t [][][]float64) [][][]float64 {
	out := make([][][]float64, len(t))
	for j, table := range t {
		out[j] = make([][]float64, len(table))
		for v, row := range table {
			out[j][v] = slices.Clone(row)
		}
	}
	return out
}
