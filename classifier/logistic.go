package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/hupe1980/weaklabel/model"
)

// LogisticConfig configures a LogisticRegression.
type LogisticConfig struct {
	// NumClasses is the size of the label space.
	NumClasses int `json:"num_classes"`
	// C is the inverse L2 regularization strength.
	C            float64 `json:"c"`
	MaxIter      int     `json:"max_iter"`
	Tolerance    float64 `json:"tolerance"`
	LearningRate float64 `json:"learning_rate"`
}

// DefaultLogisticConfig returns a weakly regularized three-class model.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{
		NumClasses:   model.Cardinality,
		C:            1e3,
		MaxIter:      1000,
		Tolerance:    1e-6,
		LearningRate: 0.5,
	}
}

func (c LogisticConfig) withDefaults() LogisticConfig {
	d := DefaultLogisticConfig()
	if c.NumClasses <= 0 {
		c.NumClasses = d.NumClasses
	}
	if c.C <= 0 {
		c.C = d.C
	}
	if c.MaxIter <= 0 {
		c.MaxIter = d.MaxIter
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.LearningRate <= 0 {
		c.LearningRate = d.LearningRate
	}
	return c
}

// LogisticRegression is a multinomial softmax classifier trained by
// deterministic full-batch gradient descent from zero weights.
type LogisticRegression struct {
	cfg    LogisticConfig
	logger *slog.Logger

	weights     [][]float64 // [class][feature]
	bias        []float64
	numFeatures int
	iterations  int
}

var _ Classifier = (*LogisticRegression)(nil)

// LogisticOption configures a LogisticRegression.
type LogisticOption func(*LogisticRegression)

// WithLogger sets the logger for training progress.
func WithLogger(l *slog.Logger) LogisticOption {
	return func(lr *LogisticRegression) {
		if l != nil {
			lr.logger = l
		}
	}
}

// NewLogisticRegression creates an unfitted model.
func NewLogisticRegression(cfg LogisticConfig, optFns ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		cfg:    cfg.withDefaults(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(lr)
		}
	}
	return lr
}

// Iterations returns the number of gradient steps taken by the last Fit.
func (lr *LogisticRegression) Iterations() int { return lr.iterations }

// Fit trains on X with labels y.
func (lr *LogisticRegression) Fit(X []SparseVector, y []model.Label) error {
	return lr.FitContext(context.Background(), X, y)
}

// FitContext is Fit with cancellation checked once per iteration.
func (lr *LogisticRegression) FitContext(ctx context.Context, X []SparseVector, y []model.Label) error {
	if len(X) != len(y) {
		return &ShapeError{What: "labels", Expected: len(X), Actual: len(y)}
	}
	if len(X) == 0 {
		return ErrNoSamples
	}
	c := lr.cfg.NumClasses
	for i, l := range y {
		if l < 0 || int(l) >= c {
			return fmt.Errorf("classifier: label %v at row %d outside %d classes", l, i, c)
		}
	}

	dims := 0
	for _, x := range X {
		if n := x.Len(); n > 0 {
			dims = max(dims, x.Indices[n-1]+1)
		}
	}

	w := make([][]float64, c)
	gw := make([][]float64, c)
	for k := range w {
		w[k] = make([]float64, dims)
		gw[k] = make([]float64, dims)
	}
	b := make([]float64, c)
	gb := make([]float64, c)
	p := make([]float64, c)

	n := float64(len(X))
	reg := 1 / (lr.cfg.C * n)
	step := lr.cfg.LearningRate

	lr.iterations = 0
	for it := 1; it <= lr.cfg.MaxIter; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for k := range gw {
			clear(gw[k])
		}
		clear(gb)

		for i, x := range X {
			softmax(x, w, b, p)
			for k := 0; k < c; k++ {
				g := p[k]
				if k == int(y[i]) {
					g--
				}
				g /= n
				gb[k] += g
				for e, idx := range x.Indices {
					gw[k][idx] += g * x.Values[e]
				}
			}
		}

		delta := 0.0
		for k := 0; k < c; k++ {
			for f := 0; f < dims; f++ {
				d := step * (gw[k][f] + reg*w[k][f])
				w[k][f] -= d
				delta = max(delta, math.Abs(d))
			}
			d := step * gb[k]
			b[k] -= d
			delta = max(delta, math.Abs(d))
		}

		lr.iterations = it
		if delta < lr.cfg.Tolerance {
			break
		}
	}

	lr.weights, lr.bias, lr.numFeatures = w, b, dims
	lr.logger.DebugContext(ctx, "logistic regression fitted",
		"samples", len(X),
		"features", dims,
		"iterations", lr.iterations,
	)
	return nil
}

// softmax writes the class probabilities of x into p.
func softmax(x SparseVector, w [][]float64, b []float64, p []float64) {
	top := math.Inf(-1)
	for k := range p {
		p[k] = x.Dot(w[k]) + b[k]
		top = max(top, p[k])
	}
	sum := 0.0
	for k := range p {
		p[k] = math.Exp(p[k] - top)
		sum += p[k]
	}
	for k := range p {
		p[k] /= sum
	}
}

// PredictProba returns class probabilities per row.
func (lr *LogisticRegression) PredictProba(X []SparseVector) ([][]float64, error) {
	if lr.weights == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, x := range X {
		out[i] = make([]float64, lr.cfg.NumClasses)
		softmax(x, lr.weights, lr.bias, out[i])
	}
	return out, nil
}

// Predict returns the most probable class per row.
func (lr *LogisticRegression) Predict(X []SparseVector) ([]model.Label, error) {
	probs, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	preds := make([]model.Label, len(probs))
	for i, p := range probs {
		preds[i], _ = model.ArgMax(p)
	}
	return preds, nil
}

// LogisticState is the serializable form of a fitted model.
type LogisticState struct {
	Config      LogisticConfig `json:"config"`
	NumFeatures int            `json:"num_features"`
	Weights     [][]float64    `json:"weights"`
	Bias        []float64      `json:"bias"`
	Iterations  int            `json:"iterations"`
}

// State exports the fitted model.
func (lr *LogisticRegression) State() (*LogisticState, error) {
	if lr.weights == nil {
		return nil, ErrNotFitted
	}
	w := make([][]float64, len(lr.weights))
	for k := range w {
		w[k] = slices.Clone(lr.weights[k])
	}
	return &LogisticState{
		Config:      lr.cfg,
		NumFeatures: lr.numFeatures,
		Weights:     w,
		Bias:        slices.Clone(lr.bias),
		Iterations:  lr.iterations,
	}, nil
}

// NewLogisticRegressionFromState restores a fitted model.
func NewLogisticRegressionFromState(st *LogisticState, optFns ...LogisticOption) (*LogisticRegression, error) {
	if st == nil {
		return nil, ErrNotFitted
	}
	lr := NewLogisticRegression(st.Config, optFns...)
	c := lr.cfg.NumClasses
	if len(st.Weights) != c {
		return nil, &ShapeError{What: "weight rows", Expected: c, Actual: len(st.Weights)}
	}
	if len(st.Bias) != c {
		return nil, &ShapeError{What: "bias", Expected: c, Actual: len(st.Bias)}
	}
	lr.weights = make([][]float64, c)
	for k, row := range st.Weights {
		if len(row) != st.NumFeatures {
			return nil, &ShapeError{What: "weight columns", Expected: st.NumFeatures, Actual: len(row)}
		}
		lr.weights[k] = slices.Clone(row)
	}
	lr.bias = slices.Clone(st.Bias)
	lr.numFeatures = st.NumFeatures
	lr.iterations = st.Iterations
	return lr, nil
}
