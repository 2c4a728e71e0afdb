package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFitted is returned when transforming or predicting before Fit.
	ErrNotFitted = errors.New("classifier: not fitted")

	// ErrEmptyVocabulary is returned when no token survives tokenization.
	ErrEmptyVocabulary = errors.New("classifier: empty vocabulary")

	// ErrNoSamples is returned when fitting on an empty training set.
	ErrNoSamples = errors.New("classifier: no training samples")
)

// ShapeError indicates inputs of different lengths.
type ShapeError struct {
	What     string
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("classifier: %s: expected %d, got %d", e.What, e.Expected, e.Actual)
}
