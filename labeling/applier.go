package labeling

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/hupe1980/weaklabel/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Failure records one labeling function error on one example.
type Failure struct {
	Function  string
	Column    int
	ExampleID string
	Row       int
	Err       error
}

// ApplyReport summarizes an Apply pass.
type ApplyReport struct {
	// FailureCounts holds the number of failed calls per column.
	FailureCounts []int
	// Failures lists failed calls ordered by (row, column).
	Failures []Failure
	Duration time.Duration
}

// FailureCount returns the total number of failed calls.
func (r *ApplyReport) FailureCount() int {
	total := 0
	for _, c := range r.FailureCounts {
		total += c
	}
	return total
}

type applierOptions struct {
	workers      int
	chunkSize    int
	logger       *slog.Logger
	failureLimit rate.Limit
	failureBurst int
}

// ApplierOption configures an Applier.
type ApplierOption func(*applierOptions)

// WithWorkers bounds the number of concurrently evaluated chunks.
// Values <= 0 mean GOMAXPROCS.
func WithWorkers(n int) ApplierOption {
	return func(o *applierOptions) {
		o.workers = n
	}
}

// WithChunkSize sets the number of examples evaluated per task.
func WithChunkSize(n int) ApplierOption {
	return func(o *applierOptions) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithLogger sets the logger used for failure reports.
func WithLogger(l *slog.Logger) ApplierOption {
	return func(o *applierOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFailureLogRate limits how many individual failures are logged.
// Failures are always counted; only their log lines are throttled.
func WithFailureLogRate(limit rate.Limit, burst int) ApplierOption {
	return func(o *applierOptions) {
		o.failureLimit = limit
		o.failureBurst = burst
	}
}

// Applier is the label matrix builder.
type Applier struct {
	registry *Registry
	opts     applierOptions
}

// NewApplier creates an Applier for reg.
func NewApplier(reg *Registry, optFns ...ApplierOption) *Applier {
	o := applierOptions{
		chunkSize:    256,
		logger:       slog.New(slog.DiscardHandler),
		failureLimit: rate.Every(100 * time.Millisecond),
		failureBurst: 20,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return &Applier{registry: reg, opts: o}
}

// Apply evaluates every registered function on every example.
// Each worker owns a disjoint range of rows, so the matrix does not depend on
// scheduling. A failing function yields Abstain for that cell.
func (a *Applier) Apply(ctx context.Context, examples []model.Example) (*model.LabelMatrix, *ApplyReport, error) {
	start := time.Now()
	m := a.registry.Len()
	L := model.NewLabelMatrix(len(examples), m)

	numChunks := (len(examples) + a.opts.chunkSize - 1) / a.opts.chunkSize
	chunkFailures := make([][]Failure, numChunks)
	limiter := rate.NewLimiter(a.opts.failureLimit, a.opts.failureBurst)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.workers)

	for c := 0; c < numChunks; c++ {
		lo := c * a.opts.chunkSize
		hi := min(lo+a.opts.chunkSize, len(examples))

		g.Go(func() error {
			var failures []Failure
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				for j, lf := range a.registry.lfs {
					vote, err := call(lf, examples[i].Text)
					if err != nil {
						f := Failure{
							Function:  lf.name,
							Column:    j,
							ExampleID: examples[i].ID,
							Row:       i,
							Err:       err,
						}
						failures = append(failures, f)
						if limiter.Allow() {
							a.opts.logger.WarnContext(gctx, "labeling function failed",
								"function", f.Function,
								"example_id", f.ExampleID,
								"error", err,
							)
						}
						continue
					}
					L.Set(i, j, vote)
				}
			}
			chunkFailures[c] = failures
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report := &ApplyReport{FailureCounts: make([]int, m)}
	for _, fs := range chunkFailures {
		report.Failures = append(report.Failures, fs...)
	}
	sort.SliceStable(report.Failures, func(x, y int) bool {
		if report.Failures[x].Row != report.Failures[y].Row {
			return report.Failures[x].Row < report.Failures[y].Row
		}
		return report.Failures[x].Column < report.Failures[y].Column
	})
	for _, f := range report.Failures {
		report.FailureCounts[f.Column]++
	}
	report.Duration = time.Since(start)

	if n := report.FailureCount(); n > 0 {
		for j, count := range report.FailureCounts {
			if count > 0 {
				a.opts.logger.WarnContext(ctx, "labeling function failures recorded as abstain",
					"function", a.registry.lfs[j].name,
					"failures", count,
				)
			}
		}
	}

	a.opts.logger.DebugContext(ctx, "label matrix built",
		"rows", L.Rows(),
		"functions", L.Cols(),
		"failures", report.FailureCount(),
		"duration", report.Duration,
	)

	return L, report, nil
}

// call invokes lf and converts errors, panics and out-of-enum votes into a
// failure with an Abstain vote.
func call(lf LabelingFunction, text string) (vote model.Label, err error) {
	defer func() {
		if r := recover(); r != nil {
			vote, err = model.Abstain, &PanicError{Value: r}
		}
	}()

	vote, err = lf.fn(text)
	if err != nil {
		return model.Abstain, err
	}
	if !vote.Valid() {
		return model.Abstain, &InvalidLabelError{Label: vote}
	}
	return vote, nil
}
