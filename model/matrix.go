package model

import (
	"errors"
	"fmt"
)

// ErrRaggedRows is returned when rows of different length are combined into a matrix.
var ErrRaggedRows = errors.New("label matrix rows have different lengths")

// InvalidVoteError indicates a cell outside the label space.
type InvalidVoteError struct {
	Row, Col int
	Vote     Label
}

func (e *InvalidVoteError) Error() string {
	return fmt.Sprintf("invalid vote %d at (%d, %d)", int8(e.Vote), e.Row, e.Col)
}

// LabelMatrix is an N×M matrix of votes stored row-major.
// Rows are examples, columns are labeling functions.
// The shape is fixed at construction.
type LabelMatrix struct {
	rows int
	cols int
	data []Label
}

// NewLabelMatrix allocates an all-Abstain matrix.
func NewLabelMatrix(rows, cols int) *LabelMatrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &LabelMatrix{
		rows: rows,
		cols: cols,
		data: make([]Label, rows*cols),
	}
}

// NewLabelMatrixFromRows copies rows into a new matrix.
func NewLabelMatrixFromRows(rows [][]Label) (*LabelMatrix, error) {
	if len(rows) == 0 {
		return NewLabelMatrix(0, 0), nil
	}
	cols := len(rows[0])
	m := NewLabelMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedRows, i, len(row), cols)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// Rows returns the number of examples.
func (m *LabelMatrix) Rows() int { return m.rows }

// Cols returns the number of labeling functions.
func (m *LabelMatrix) Cols() int { return m.cols }

// At returns the vote of function j on example i.
func (m *LabelMatrix) At(i, j int) Label {
	return m.data[i*m.cols+j]
}

// Set stores a vote. Only matrix builders should call Set.
func (m *LabelMatrix) Set(i, j int, l Label) {
	m.data[i*m.cols+j] = l
}

// Row returns a read-only view of row i.
func (m *LabelMatrix) Row(i int) []Label {
	return m.data[i*m.cols : (i+1)*m.cols : (i+1)*m.cols]
}

// Covered reports whether at least one function voted on row i.
func (m *LabelMatrix) Covered(i int) bool {
	for _, l := range m.Row(i) {
		if l != Abstain {
			return true
		}
	}
	return false
}

// Validate checks every cell against a label space of the given cardinality.
func (m *LabelMatrix) Validate(cardinality int) error {
	for idx, l := range m.data {
		if l < Abstain || int(l) >= cardinality {
			return &InvalidVoteError{Row: idx / m.cols, Col: idx % m.cols, Vote: l}
		}
	}
	return nil
}
