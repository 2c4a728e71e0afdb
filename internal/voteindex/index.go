package voteindex

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/weaklabel/model"
)

// Index holds per (function, vote) row sets for a label matrix.
// It is immutable after Build and safe for concurrent reads.
type Index struct {
	rows        int
	cols        int
	cardinality int

	// votes[j][v] holds the rows where function j voted v. votes[j][0] is empty.
	votes   [][]*roaring.Bitmap
	fired   []*roaring.Bitmap
	covered *roaring.Bitmap
}

// Build indexes m. Cells outside [0, cardinality) are ignored; validate the
// matrix first if that matters.
func Build(m *model.LabelMatrix, cardinality int) *Index {
	x := &Index{
		rows:        m.Rows(),
		cols:        m.Cols(),
		cardinality: cardinality,
		votes:       make([][]*roaring.Bitmap, m.Cols()),
		fired:       make([]*roaring.Bitmap, m.Cols()),
	}

	for j := 0; j < x.cols; j++ {
		x.votes[j] = make([]*roaring.Bitmap, cardinality)
		for v := range x.votes[j] {
			x.votes[j][v] = roaring.New()
		}
	}

	for i := 0; i < x.rows; i++ {
		for j, l := range m.Row(i) {
			if l == model.Abstain || int(l) >= cardinality || l < 0 {
				continue
			}
			x.votes[j][l].Add(uint32(i))
		}
	}

	for j := 0; j < x.cols; j++ {
		for _, bm := range x.votes[j] {
			bm.RunOptimize()
		}
		x.fired[j] = roaring.FastOr(x.votes[j]...)
	}
	x.covered = roaring.FastOr(x.fired...)

	return x
}

// Rows returns the number of indexed rows.
func (x *Index) Rows() int { return x.rows }

// Cols returns the number of labeling functions.
func (x *Index) Cols() int { return x.cols }

// Count returns the number of rows on which function j voted v.
func (x *Index) Count(j int, v model.Label) uint64 {
	return x.votes[j][v].GetCardinality()
}

// Fired returns the rows on which function j did not abstain.
func (x *Index) Fired(j int) *roaring.Bitmap {
	return x.fired[j]
}

// Covered returns the rows with at least one non-abstain vote.
func (x *Index) Covered() *roaring.Bitmap {
	return x.covered
}

// CoOccurrence returns the number of rows where function a voted va and
// function b voted vb.
func (x *Index) CoOccurrence(a int, va model.Label, b int, vb model.Label) uint64 {
	return x.votes[a][va].AndCardinality(x.votes[b][vb])
}

// FiredBoth returns the number of rows where both functions voted.
func (x *Index) FiredBoth(a, b int) uint64 {
	return x.fired[a].AndCardinality(x.fired[b])
}

// Polarity returns the distinct labels voted by function j, in label order.
func (x *Index) Polarity(j int) []model.Label {
	var out []model.Label
	for v := 1; v < x.cardinality; v++ {
		if !x.votes[j][v].IsEmpty() {
			out = append(out, model.Label(v))
		}
	}
	return out
}

// OthersFired returns the rows where any function other than j voted.
func (x *Index) OthersFired(j int) *roaring.Bitmap {
	others := make([]*roaring.Bitmap, 0, x.cols-1)
	for k := 0; k < x.cols; k++ {
		if k != j {
			others = append(others, x.fired[k])
		}
	}
	return roaring.FastOr(others...)
}

// OthersDisagreeing returns the rows where function j voted some v and a
// different function voted a non-abstain label other than v.
func (x *Index) OthersDisagreeing(j int) *roaring.Bitmap {
	result := roaring.New()
	for v := 1; v < x.cardinality; v++ {
		mine := x.votes[j][v]
		if mine.IsEmpty() {
			continue
		}
		var against []*roaring.Bitmap
		for k := 0; k < x.cols; k++ {
			if k == j {
				continue
			}
			for w := 1; w < x.cardinality; w++ {
				if w != v {
					against = append(against, x.votes[k][w])
				}
			}
		}
		result.Or(roaring.And(mine, roaring.FastOr(against...)))
	}
	return result
}

// CoveredRows iterates covered row ids in ascending order.
func (x *Index) CoveredRows() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := x.covered.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}
