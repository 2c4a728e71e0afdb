// Package voteindex indexes a label matrix as roaring bitmaps of row ids.
//
// For every labeling function j and vote value v the index keeps the set of
// rows on which j voted v. Coverage, overlap and conflict diagnostics and the
// co-occurrence moments of the label model are all set cardinalities over
// these bitmaps.
package voteindex
