package weaklabel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/weaklabel/artifact"
	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/hupe1980/weaklabel/classifier"
	"github.com/hupe1980/weaklabel/labeling"
	"github.com/hupe1980/weaklabel/labelmodel"
	"github.com/hupe1980/weaklabel/pseudolabel"
)

var (
	// ErrNoExamples is returned when a pipeline runs on an empty input.
	ErrNoExamples = errors.New("no examples")
	// ErrNoClassifier is returned when an artifact carries no trained classifier.
	ErrNoClassifier = errors.New("artifact has no classifier")
	// ErrNoRegistry is returned by Aggregate when the predictor has no labeling functions.
	ErrNoRegistry = errors.New("predictor has no labeling function registry")
	// ErrNotFound is returned when no committed run exists.
	ErrNotFound = errors.New("not found")
	// ErrNumericalInstability is returned when a posterior cannot be computed.
	ErrNumericalInstability = labelmodel.ErrNumericalInstability
)

// ShapeMismatchError indicates inputs whose dimensions disagree.
// Aggregation never proceeds on mismatched shapes.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ShapeMismatchError struct {
	What     string
	Expected int
	Actual   int
	cause    error
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s: expected %d, got %d", e.What, e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, artifact.ErrNoRuns) || errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Shape normalization.
	var lms *labelmodel.ShapeError
	if errors.As(err, &lms) {
		return &ShapeMismatchError{What: "labeling functions", Expected: lms.Expected, Actual: lms.Actual, cause: err}
	}
	var pls *pseudolabel.ShapeError
	if errors.As(err, &pls) {
		if pls.Probs != pls.Examples {
			return &ShapeMismatchError{What: "distributions per example", Expected: pls.Examples, Actual: pls.Probs, cause: err}
		}
		return &ShapeMismatchError{What: "label matrix rows", Expected: pls.Examples, Actual: pls.Rows, cause: err}
	}
	var cs *classifier.ShapeError
	if errors.As(err, &cs) {
		return &ShapeMismatchError{What: cs.What, Expected: cs.Expected, Actual: cs.Actual, cause: err}
	}
	var ls *labeling.ShapeError
	if errors.As(err, &ls) {
		return &ShapeMismatchError{What: ls.What, Expected: ls.Expected, Actual: ls.Actual, cause: err}
	}

	return err
}
