package labelmodel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/weaklabel/model"
)

var (
	// ErrNotFitted is returned when predicting before Fit or FromState.
	ErrNotFitted = errors.New("label model is not fitted")

	// ErrNumericalInstability is returned when a posterior cannot be represented.
	ErrNumericalInstability = errors.New("label model numerical instability")
)

// ShapeError indicates a label matrix whose column count does not match the
// number of functions the model was fitted on.
type ShapeError struct {
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("label matrix has %d functions, model was fitted on %d", e.Actual, e.Expected)
}

// InvalidVoteError indicates a vote outside the configured label space.
type InvalidVoteError struct {
	Row, Col int
	Vote     model.Label
	cause    error
}

func (e *InvalidVoteError) Error() string {
	return fmt.Sprintf("invalid vote %d at row %d, function %d", int8(e.Vote), e.Row, e.Col)
}

func (e *InvalidVoteError) Unwrap() error { return e.cause }

// ConfigError indicates an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid label model config: %s %s", e.Field, e.Reason)
}

func validateVotes(L *model.LabelMatrix, cardinality int) error {
	err := L.Validate(cardinality)
	if err == nil {
		return nil
	}
	var iv *model.InvalidVoteError
	if errors.As(err, &iv) {
		return &InvalidVoteError{Row: iv.Row, Col: iv.Col, Vote: iv.Vote, cause: err}
	}
	return err
}
