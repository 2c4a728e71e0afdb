package labelmodel

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/hupe1980/weaklabel/model"
)

// Config holds the label model hyperparameters.
type Config struct {
	// Cardinality is the number of classes, including class 0.
	Cardinality int
	// Epochs bounds the number of optimization steps.
	Epochs int
	// Tolerance stops the optimization once no parameter moves further.
	Tolerance float64
	// Seed drives the initialization jitter.
	Seed int64
	// LearningRate is the first step size. Later steps adapt to the local
	// curvature of the loss.
	LearningRate float64
	// L2 pulls parameters towards their initial values.
	L2 float64
	// PrecisionInit is the initial P(Y = v | function votes v).
	PrecisionInit float64
	// InitJitter is the relative amplitude of the seeded initialization noise.
	InitJitter float64
	// ClassBalance is the class prior. Nil means uniform.
	ClassBalance []float64
	// LogEvery logs training progress every n epochs. Zero disables it.
	LogEvery int
	// Workers bounds moment computation parallelism. Zero means GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the configuration used for the sentiment pipeline.
func DefaultConfig() Config {
	return Config{
		Cardinality:   model.Cardinality,
		Epochs:        500,
		Tolerance:     1e-7,
		Seed:          123,
		LearningRate:  0.01,
		PrecisionInit: 0.7,
		InitJitter:    0.01,
		LogEvery:      100,
	}
}

// withDefaults fills zero-valued required fields.
// L2, Seed and InitJitter are meaningful at zero and are left alone.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Cardinality == 0 {
		c.Cardinality = d.Cardinality
	}
	if c.Epochs == 0 {
		c.Epochs = d.Epochs
	}
	if c.Tolerance == 0 {
		c.Tolerance = d.Tolerance
	}
	if c.LearningRate == 0 {
		c.LearningRate = d.LearningRate
	}
	if c.PrecisionInit == 0 {
		c.PrecisionInit = d.PrecisionInit
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

func (c Config) validate() error {
	switch {
	case c.Cardinality < 2:
		return &ConfigError{Field: "Cardinality", Reason: "must be at least 2"}
	case c.Cardinality > math.MaxInt8:
		return &ConfigError{Field: "Cardinality", Reason: "must fit a label"}
	case c.Epochs < 0:
		return &ConfigError{Field: "Epochs", Reason: "must not be negative"}
	case c.Tolerance < 0 || math.IsNaN(c.Tolerance):
		return &ConfigError{Field: "Tolerance", Reason: "must not be negative"}
	case c.LearningRate < 0 || math.IsNaN(c.LearningRate) || math.IsInf(c.LearningRate, 0):
		return &ConfigError{Field: "LearningRate", Reason: "must be a positive finite number"}
	case c.L2 < 0 || math.IsNaN(c.L2):
		return &ConfigError{Field: "L2", Reason: "must not be negative"}
	case c.PrecisionInit <= 0 || c.PrecisionInit >= 1:
		return &ConfigError{Field: "PrecisionInit", Reason: "must be in (0, 1)"}
	case c.InitJitter < 0 || c.InitJitter >= 1:
		return &ConfigError{Field: "InitJitter", Reason: "must be in [0, 1)"}
	case c.LogEvery < 0:
		return &ConfigError{Field: "LogEvery", Reason: "must not be negative"}
	}

	if c.ClassBalance != nil {
		if len(c.ClassBalance) != c.Cardinality {
			return &ConfigError{Field: "ClassBalance", Reason: "must have one entry per class"}
		}
		sum := 0.0
		for _, p := range c.ClassBalance {
			if !(p > 0) || math.IsInf(p, 0) {
				return &ConfigError{Field: "ClassBalance", Reason: "entries must be positive"}
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-6 {
			return &ConfigError{Field: "ClassBalance", Reason: "must sum to 1"}
		}
	}
	return nil
}

func (c Config) prior() []float64 {
	if c.ClassBalance == nil {
		return model.Uniform(c.Cardinality)
	}
	return append([]float64(nil), c.ClassBalance...)
}

// Option configures a LabelModel.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for training progress and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
