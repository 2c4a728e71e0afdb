package labelmodel

import (
	"context"

	"github.com/hupe1980/weaklabel/internal/voteindex"
	"github.com/hupe1980/weaklabel/model"
	"golang.org/x/sync/errgroup"
)

// unit is one voting outcome (function, vote) that was observed at least once.
type unit struct {
	fn   int
	vote model.Label
}

// moments holds the observed vote statistics of a label matrix.
type moments struct {
	units []unit
	// offset[j] is the index of function j's first unit; units of a function
	// are contiguous and ordered by vote.
	offset []int
	// d[a] is the fraction of rows on which unit a fired.
	d []float64
	// o[a*len(units)+b] is the fraction of rows on which units a and b both
	// fired. Entries for units of the same function are unused.
	o []float64
	// informative[j] reports whether function j voted at least once.
	informative []bool
}

func (s *moments) pair(a, b int) float64 {
	return s.o[a*len(s.units)+b]
}

// computeMoments derives the observed statistics. Pairwise co-occurrences are
// bitmap intersections; each function's rows of O are filled by their own
// goroutine.
func computeMoments(ctx context.Context, L *model.LabelMatrix, cardinality, workers int) (*moments, error) {
	x := voteindex.Build(L, cardinality)
	n := float64(L.Rows())

	s := &moments{
		offset:      make([]int, L.Cols()+1),
		informative: make([]bool, L.Cols()),
	}
	for j := 0; j < L.Cols(); j++ {
		s.offset[j] = len(s.units)
		for v := 1; v < cardinality; v++ {
			if c := x.Count(j, model.Label(v)); c > 0 {
				s.units = append(s.units, unit{fn: j, vote: model.Label(v)})
				s.d = append(s.d, float64(c)/n)
				s.informative[j] = true
			}
		}
	}
	s.offset[L.Cols()] = len(s.units)

	u := len(s.units)
	s.o = make([]float64, u*u)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for j := 0; j < L.Cols(); j++ {
		if !s.informative[j] {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for a := s.offset[j]; a < s.offset[j+1]; a++ {
				ua := s.units[a]
				for b, ub := range s.units {
					if ub.fn == j {
						continue
					}
					s.o[a*u+b] = float64(x.CoOccurrence(ua.fn, ua.vote, ub.fn, ub.vote)) / n
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}
