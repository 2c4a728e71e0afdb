package weaklabel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/hupe1980/weaklabel/classifier"
	"github.com/hupe1980/weaklabel/labeling"
	"github.com/hupe1980/weaklabel/labelmodel"
	"github.com/hupe1980/weaklabel/pseudolabel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, translateError(plain))

	err := translateError(fmt.Errorf("read: %w", blobstore.ErrNotFound))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	tests := []struct {
		name     string
		in       error
		expected int
		actual   int
	}{
		{"label model", &labelmodel.ShapeError{Expected: 3, Actual: 2}, 3, 2},
		{"distributions", &pseudolabel.ShapeError{Examples: 4, Probs: 3, Rows: 4}, 4, 3},
		{"matrix rows", &pseudolabel.ShapeError{Examples: 4, Probs: 4, Rows: 5}, 4, 5},
		{"classifier", &classifier.ShapeError{What: "labels", Expected: 7, Actual: 6}, 7, 6},
		{"labeling", &labeling.ShapeError{What: "gold labels per row", Expected: 8, Actual: 3}, 8, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.in)
			var sm *ShapeMismatchError
			require.ErrorAs(t, err, &sm)
			assert.Equal(t, tt.expected, sm.Expected)
			assert.Equal(t, tt.actual, sm.Actual)
			assert.ErrorIs(t, err, tt.in)
		})
	}
}

func TestTranslateError_LabelingShape(t *testing.T) {
	err := translateError(fmt.Errorf("analyze: %w", &labeling.ShapeError{What: "gold labels per row", Expected: 8, Actual: 3}))

	var sm *ShapeMismatchError
	require.ErrorAs(t, err, &sm)
	assert.Equal(t, "shape mismatch: gold labels per row: expected 8, got 3", sm.Error())
	assert.NotContains(t, sm.Error(), "-1")
	assert.ErrorIs(t, err, labeling.ErrShapeMismatch)
}

func TestNumericalInstabilityAlias(t *testing.T) {
	assert.ErrorIs(t, fmt.Errorf("x: %w", labelmodel.ErrNumericalInstability), ErrNumericalInstability)
}
