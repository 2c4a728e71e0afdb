package labeling

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/weaklabel/internal/voteindex"
	"github.com/hupe1980/weaklabel/model"
)

// FunctionSummary holds the diagnostics of one labeling function.
type FunctionSummary struct {
	Name     string        `json:"name"`
	Column   int           `json:"column"`
	Polarity []model.Label `json:"polarity"`
	// Coverage is the fraction of rows the function voted on.
	Coverage float64 `json:"coverage"`
	// Overlaps is the fraction of rows where the function and at least one other function voted.
	Overlaps float64 `json:"overlaps"`
	// Conflicts is the fraction of rows where another function voted a different label.
	Conflicts float64 `json:"conflicts"`

	HasGold           bool    `json:"has_gold"`
	Correct           int     `json:"correct,omitempty"`
	Incorrect         int     `json:"incorrect,omitempty"`
	EmpiricalAccuracy float64 `json:"empirical_accuracy,omitempty"`
}

// Summary holds per-function diagnostics for a label matrix.
type Summary struct {
	Rows      int               `json:"rows"`
	Coverage  float64           `json:"coverage"`
	Functions []FunctionSummary `json:"functions"`
	// PairOverlaps[a][b] is the fraction of rows on which both functions voted.
	PairOverlaps [][]float64 `json:"pair_overlaps"`
	// PairConflicts[a][b] is the fraction of rows on which both functions
	// voted different labels.
	PairConflicts [][]float64 `json:"pair_conflicts"`
}

// Analyze computes coverage, overlap and conflict diagnostics.
// gold is optional; when given it must hold one label per row.
func Analyze(L *model.LabelMatrix, reg *Registry, gold []model.Label) (*Summary, error) {
	if reg != nil && L.Cols() != reg.Len() {
		return nil, &ShapeError{What: "matrix columns per registered function", Expected: reg.Len(), Actual: L.Cols()}
	}
	if gold != nil && len(gold) != L.Rows() {
		return nil, &ShapeError{What: "gold labels per row", Expected: L.Rows(), Actual: len(gold)}
	}

	x := voteindex.Build(L, model.Cardinality)
	s := &Summary{
		Rows:      L.Rows(),
		Functions: make([]FunctionSummary, L.Cols()),
	}
	s.Coverage = fraction(x.Covered().GetCardinality(), L.Rows())

	for j := 0; j < L.Cols(); j++ {
		fired := x.Fired(j)
		fs := FunctionSummary{
			Name:      fmt.Sprintf("lf_%d", j),
			Column:    j,
			Polarity:  x.Polarity(j),
			Coverage:  fraction(fired.GetCardinality(), L.Rows()),
			Overlaps:  fraction(fired.AndCardinality(x.OthersFired(j)), L.Rows()),
			Conflicts: fraction(x.OthersDisagreeing(j).GetCardinality(), L.Rows()),
		}
		if reg != nil {
			fs.Name = reg.At(j).Name()
		}

		if gold != nil {
			fs.HasGold = true
			it := fired.Iterator()
			for it.HasNext() {
				i := int(it.Next())
				if L.At(i, j) == gold[i] {
					fs.Correct++
				} else {
					fs.Incorrect++
				}
			}
			if n := fs.Correct + fs.Incorrect; n > 0 {
				fs.EmpiricalAccuracy = float64(fs.Correct) / float64(n)
			}
		}

		s.Functions[j] = fs
	}

	s.PairOverlaps, s.PairConflicts = pairwise(x, L.Cols(), L.Rows())
	return s, nil
}

func pairwise(x *voteindex.Index, m, rows int) (overlaps, conflicts [][]float64) {
	overlaps = make([][]float64, m)
	conflicts = make([][]float64, m)
	for a := 0; a < m; a++ {
		overlaps[a] = make([]float64, m)
		conflicts[a] = make([]float64, m)
	}
	for a := 0; a < m; a++ {
		for b := a; b < m; b++ {
			both := x.FiredBoth(a, b)
			var agree uint64
			for v := 1; v < model.Cardinality; v++ {
				agree += x.CoOccurrence(a, model.Label(v), b, model.Label(v))
			}
			overlaps[a][b] = fraction(both, rows)
			overlaps[b][a] = overlaps[a][b]
			conflicts[a][b] = fraction(both-agree, rows)
			conflicts[b][a] = conflicts[a][b]
		}
	}
	return overlaps, conflicts
}

// Overlap returns the fraction of rows on which both functions voted.
// Unknown columns yield 0.
func (s *Summary) Overlap(a, b int) float64 {
	return lookup(s.PairOverlaps, a, b)
}

// Conflict returns the fraction of rows on which both functions voted different labels.
// Unknown columns yield 0.
func (s *Summary) Conflict(a, b int) float64 {
	return lookup(s.PairConflicts, a, b)
}

func lookup(m [][]float64, a, b int) float64 {
	if a < 0 || a >= len(m) || b < 0 || b >= len(m[a]) {
		return 0
	}
	return m[a][b]
}

// String renders the summary as a table.
func (s *Summary) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	header := "\tj\tPolarity\tCoverage\tOverlaps\tConflicts"
	withGold := len(s.Functions) > 0 && s.Functions[0].HasGold
	if withGold {
		header += "\tCorrect\tIncorrect\tEmp. Acc."
	}
	fmt.Fprintln(w, header)

	for _, fs := range s.Functions {
		polarity := make([]string, len(fs.Polarity))
		for i, l := range fs.Polarity {
			polarity[i] = l.String()
		}
		fmt.Fprintf(w, "%s\t%d\t[%s]\t%.4f\t%.4f\t%.4f",
			fs.Name, fs.Column, strings.Join(polarity, ", "), fs.Coverage, fs.Overlaps, fs.Conflicts)
		if withGold {
			fmt.Fprintf(w, "\t%d\t%d\t%.4f", fs.Correct, fs.Incorrect, fs.EmpiricalAccuracy)
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()

	return sb.String()
}

func fraction(count uint64, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
