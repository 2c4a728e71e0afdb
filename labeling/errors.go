package labeling

import (
	"errors"
	"fmt"

	"github.com/hupe1980/weaklabel/model"
)

var (
	// ErrShapeMismatch is returned when a matrix does not fit the registry or its companions.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDuplicateName is returned when two functions share a name.
	ErrDuplicateName = errors.New("duplicate labeling function name")

	// ErrEmptyName is returned for an unnamed function.
	ErrEmptyName = errors.New("labeling function name is empty")

	// ErrNilFunc is returned for a function without a body.
	ErrNilFunc = errors.New("labeling function is nil")
)

// PanicError wraps a value recovered from a panicking labeling function.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("labeling function panicked: %v", e.Value)
}

// InvalidLabelError indicates a function returned a value outside the label enum.
type InvalidLabelError struct {
	Label model.Label
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("labeling function returned invalid label %d", int8(e.Label))
}

// ShapeError reports a companion input that does not fit the label matrix.
// It matches ErrShapeMismatch.
type ShapeError struct {
	What     string
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: %s: expected %d, got %d", ErrShapeMismatch, e.What, e.Expected, e.Actual)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShapeMismatch }
