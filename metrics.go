package weaklabel

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/weaklabel/labelmodel"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordApply is called after a label matrix is built.
	// failures counts labeling function errors recorded as ABSTAIN.
	RecordApply(rows, failures int, duration time.Duration)

	// RecordFit is called after each label model fit.
	RecordFit(iterations int, termination labelmodel.Termination, duration time.Duration, err error)

	// RecordFilter is called after uncovered examples are dropped.
	RecordFilter(kept, dropped int)

	// RecordTrain is called after each classifier training run.
	RecordTrain(samples int, duration time.Duration, err error)

	// RecordPredict is called after each prediction call.
	RecordPredict(count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordApply(int, int, time.Duration)                         {}
func (NoopMetricsCollector) RecordFit(int, labelmodel.Termination, time.Duration, error) {}
func (NoopMetricsCollector) RecordFilter(int, int)                                       {}
func (NoopMetricsCollector) RecordTrain(int, time.Duration, error)                       {}
func (NoopMetricsCollector) RecordPredict(int, time.Duration, error)                     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	ApplyCount          atomic.Int64
	ApplyRows           atomic.Int64
	ApplyFailures       atomic.Int64
	FitCount            atomic.Int64
	FitErrors           atomic.Int64
	FitNotConverged     atomic.Int64
	FitIterations       atomic.Int64
	FitTotalNanos       atomic.Int64
	PseudoLabelsKept    atomic.Int64
	PseudoLabelsDropped atomic.Int64
	TrainCount          atomic.Int64
	TrainErrors         atomic.Int64
	TrainSamples        atomic.Int64
	PredictCount        atomic.Int64
	PredictErrors       atomic.Int64
	PredictItems        atomic.Int64
	PredictTotalNanos   atomic.Int64
}

// RecordApply implements MetricsCollector.
func (b *BasicMetricsCollector) RecordApply(rows, failures int, _ time.Duration) {
	b.ApplyCount.Add(1)
	b.ApplyRows.Add(int64(rows))
	b.ApplyFailures.Add(int64(failures))
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(iterations int, termination labelmodel.Termination, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
		return
	}
	b.FitIterations.Add(int64(iterations))
	if termination != labelmodel.TerminationConverged {
		b.FitNotConverged.Add(1)
	}
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(kept, dropped int) {
	b.PseudoLabelsKept.Add(int64(kept))
	b.PseudoLabelsDropped.Add(int64(dropped))
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(samples int, _ time.Duration, err error) {
	b.TrainCount.Add(1)
	b.TrainSamples.Add(int64(samples))
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordPredict implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPredict(count int, duration time.Duration, err error) {
	b.PredictCount.Add(1)
	b.PredictTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PredictErrors.Add(1)
		return
	}
	b.PredictItems.Add(int64(count))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ApplyCount:          b.ApplyCount.Load(),
		ApplyRows:           b.ApplyRows.Load(),
		ApplyFailures:       b.ApplyFailures.Load(),
		FitCount:            b.FitCount.Load(),
		FitErrors:           b.FitErrors.Load(),
		FitNotConverged:     b.FitNotConverged.Load(),
		FitAvgIterations:    avg(b.FitIterations.Load(), b.FitCount.Load()-b.FitErrors.Load()),
		FitAvgNanos:         avg(b.FitTotalNanos.Load(), b.FitCount.Load()),
		PseudoLabelsKept:    b.PseudoLabelsKept.Load(),
		PseudoLabelsDropped: b.PseudoLabelsDropped.Load(),
		TrainCount:          b.TrainCount.Load(),
		TrainErrors:         b.TrainErrors.Load(),
		TrainSamples:        b.TrainSamples.Load(),
		PredictCount:        b.PredictCount.Load(),
		PredictErrors:       b.PredictErrors.Load(),
		PredictItems:        b.PredictItems.Load(),
		PredictAvgNanos:     avg(b.PredictTotalNanos.Load(), b.PredictCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count <= 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ApplyCount          int64
	ApplyRows           int64
	ApplyFailures       int64
	FitCount            int64
	FitErrors           int64
	FitNotConverged     int64
	FitAvgIterations    int64
	FitAvgNanos         int64
	PseudoLabelsKept    int64
	PseudoLabelsDropped int64
	TrainCount          int64
	TrainErrors         int64
	TrainSamples        int64
	PredictCount        int64
	PredictErrors       int64
	PredictItems        int64
	PredictAvgNanos     int64
}
