package weaklabel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/weaklabel/artifact"
	"github.com/hupe1980/weaklabel/classifier"
	"github.com/hupe1980/weaklabel/labeling"
	"github.com/hupe1980/weaklabel/labelmodel"
	"github.com/hupe1980/weaklabel/model"
	"github.com/hupe1980/weaklabel/pseudolabel"
)

// Result is the outcome of a training run.
type Result struct {
	RunID string

	Matrix      *model.LabelMatrix
	ApplyReport *labeling.ApplyReport
	Summary     *labeling.Summary
	Fit         *labelmodel.FitResult
	// Probs holds one label distribution per input example.
	Probs    [][]float64
	Filtered *pseudolabel.Filtered
	// Report compares the pseudo labels with the classifier's predictions on
	// its own training set. It is nil when no classifier was trained.
	Report   *classifier.ClassificationReport
	Artifact *artifact.Artifact

	// Warnings collects non-fatal conditions, such as a label model that did
	// not converge or a run without any pseudo label.
	Warnings []string
}

// Pipeline trains a label model and a downstream classifier from a fixed
// registry of labeling functions.
type Pipeline struct {
	registry *labeling.Registry
	opts     options
}

// NewPipeline creates a Pipeline for reg.
func NewPipeline(reg *labeling.Registry, optFns ...Option) (*Pipeline, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, errors.New("weaklabel: pipeline needs at least one labeling function")
	}
	return &Pipeline{registry: reg, opts: applyOptions(optFns)}, nil
}

// Run executes one training pass over examples:
// apply, analyze, fit, predict, filter, vectorize, train, report and save.
//
// The classifier is trained only on examples with at least one non-ABSTAIN
// vote. When no example qualifies the run still succeeds, without classifier.
func (p *Pipeline) Run(ctx context.Context, examples []model.Example) (*Result, error) {
	if len(examples) == 0 {
		return nil, ErrNoExamples
	}
	if p.opts.gold != nil && len(p.opts.gold) != len(examples) {
		return nil, &ShapeMismatchError{What: "gold labels", Expected: len(examples), Actual: len(p.opts.gold)}
	}

	a := artifact.New()
	log := p.opts.logger.WithRunID(a.RunID)
	res := &Result{RunID: a.RunID, Artifact: a}

	// Label matrix.
	applier := labeling.NewApplier(p.registry,
		labeling.WithWorkers(p.opts.workers),
		labeling.WithLogger(log.Logger),
	)
	L, report, err := applier.Apply(ctx, examples)
	if err != nil {
		return nil, translateError(err)
	}
	p.opts.metricsCollector.RecordApply(L.Rows(), report.FailureCount(), report.Duration)
	log.LogApply(ctx, L.Rows(), L.Cols(), report.FailureCount(), report.Duration)
	res.Matrix, res.ApplyReport = L, report

	summary, err := labeling.Analyze(L, p.registry, p.opts.gold)
	if err != nil {
		return nil, translateError(err)
	}
	res.Summary = summary
	log.DebugContext(ctx, "labeling function summary", "coverage", summary.Coverage)

	// Label model.
	lm := labelmodel.New(p.opts.labelModel, labelmodel.WithLogger(log.Logger))
	fit, err := lm.Fit(ctx, L)
	if err != nil {
		p.opts.metricsCollector.RecordFit(0, 0, 0, err)
		log.LogFit(ctx, nil, err)
		return nil, translateError(err)
	}
	p.opts.metricsCollector.RecordFit(fit.Iterations, fit.Termination, fit.Duration, nil)
	log.LogFit(ctx, fit, nil)
	res.Fit = fit
	res.Warnings = append(res.Warnings, fit.Warnings...)

	probs, err := lm.PredictProba(L)
	if err != nil {
		return nil, translateError(err)
	}
	res.Probs = probs

	// Pseudo labels.
	filtered, err := pseudolabel.FilterUnlabeled(examples, probs, L)
	if err != nil {
		return nil, translateError(err)
	}
	res.Filtered = filtered
	dropped := filtered.Dropped(len(examples))
	p.opts.metricsCollector.RecordFilter(filtered.Len(), dropped)
	log.LogFilter(ctx, filtered.Len(), dropped)

	lmState, err := lm.State()
	if err != nil {
		return nil, translateError(err)
	}
	a.Functions = p.registry.Names()
	a.LabelModel = lmState
	a.Summary = summary
	a.Stats = artifact.RunStats{
		Examples:   len(examples),
		Pseudo:     filtered.Len(),
		Dropped:    dropped,
		LFFailures: report.FailureCount(),
	}

	// Downstream classifier.
	if filtered.Len() == 0 {
		res.Warnings = append(res.Warnings, "no example received a vote; classifier not trained")
		log.WarnContext(ctx, "no pseudo labels; classifier not trained")
	} else if err := p.train(ctx, log, res); err != nil {
		return nil, translateError(err)
	}

	// Persistence.
	if p.opts.store != nil {
		err := artifact.Save(ctx, p.opts.store, a,
			artifact.WithCodec(p.opts.codec),
			artifact.WithCompression(p.opts.compression),
			artifact.WithLogger(log.Logger),
		)
		if err == nil && p.opts.savePseudoLabels {
			err = artifact.SavePseudoLabels(ctx, p.opts.store, a.RunID, filtered)
		}
		log.LogSave(ctx, a.RunID, err)
		if err != nil {
			return nil, translateError(err)
		}
	}

	return res, nil
}

func (p *Pipeline) train(ctx context.Context, log *Logger, res *Result) error {
	start := time.Now()
	filtered := res.Filtered

	vec := classifier.NewVectorizer(p.opts.vectorizer)
	X, err := vec.FitTransform(model.Texts(filtered.Examples))
	if errors.Is(err, classifier.ErrEmptyVocabulary) {
		res.Warnings = append(res.Warnings, "pseudo-labeled texts yield no vocabulary; classifier not trained")
		log.WarnContext(ctx, "empty vocabulary; classifier not trained")
		return nil
	}
	if err != nil {
		return fmt.Errorf("vectorize: %w", err)
	}

	lr := classifier.NewLogisticRegression(p.opts.logistic, classifier.WithLogger(log.Logger))
	err = lr.FitContext(ctx, X, filtered.Labels)
	p.opts.metricsCollector.RecordTrain(len(X), time.Since(start), err)
	log.LogTrain(ctx, len(X), vec.Len(), lr.Iterations(), err)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return err
	}
	report, err := classifier.Report(filtered.Labels, yPred)
	if err != nil {
		return err
	}
	res.Report = report

	vs, err := vec.State()
	if err != nil {
		return err
	}
	cs, err := lr.State()
	if err != nil {
		return err
	}
	res.Artifact.Vectorizer = vs
	res.Artifact.Classifier = cs
	res.Artifact.Report = report
	return nil
}
