package labelmodel

import (
	"fmt"
	"time"
)

// Termination describes why Fit stopped.
type Termination int

const (
	// TerminationConverged means no parameter moved by Tolerance or more.
	TerminationConverged Termination = iota + 1
	// TerminationBudgetExhausted means Epochs ran out before convergence.
	// The last parameters are kept.
	TerminationBudgetExhausted
	// TerminationDegenerate means the matrix held no votes at all.
	TerminationDegenerate
)

var terminationNames = map[Termination]string{
	TerminationConverged:       "converged",
	TerminationBudgetExhausted: "budget_exhausted",
	TerminationDegenerate:      "degenerate",
}

func (t Termination) String() string {
	if s, ok := terminationNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Termination(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Termination) MarshalText() ([]byte, error) {
	if _, ok := terminationNames[t]; !ok {
		return nil, fmt.Errorf("unknown termination %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Termination) UnmarshalText(b []byte) error {
	for k, v := range terminationNames {
		if v == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown termination %q", string(b))
}

// FitResult reports the outcome of Fit.
type FitResult struct {
	Iterations  int           `json:"iterations"`
	Delta       float64       `json:"delta"`
	Loss        float64       `json:"loss"`
	Termination Termination   `json:"termination"`
	Duration    time.Duration `json:"duration"`
	// Warnings holds conditions a caller should surface, such as a
	// non-converged optimization.
	Warnings []string `json:"warnings,omitempty"`
}

// Converged reports whether the optimization reached its tolerance.
func (r FitResult) Converged() bool {
	return r.Termination == TerminationConverged
}
