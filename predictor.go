package weaklabel

import (
	"context"
	"slices"
	"time"

	"github.com/hupe1980/weaklabel/artifact"
	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/hupe1980/weaklabel/classifier"
	"github.com/hupe1980/weaklabel/internal/cache"
	"github.com/hupe1980/weaklabel/labeling"
	"github.com/hupe1980/weaklabel/labelmodel"
	"github.com/hupe1980/weaklabel/model"
)

// Prediction is the label of one text.
type Prediction struct {
	// Label is the arg-max class. ABSTAIN means neither NEGATIVE nor POSITIVE won.
	Label model.Label `json:"label"`
	// Probability is the probability of Label.
	Probability float64 `json:"probability"`
	// Probabilities holds one probability per class, indexed by label.
	Probabilities []float64 `json:"probabilities"`
}

func newPrediction(dist []float64) Prediction {
	l, p := model.ArgMax(dist)
	if l != model.Negative && l != model.Positive {
		l = model.Abstain
	}
	return Prediction{Label: l, Probability: p, Probabilities: dist}
}

// Predictor labels new text with the models of one committed run.
// It is safe for concurrent use.
type Predictor struct {
	artifact   *artifact.Artifact
	vectorizer *classifier.Vectorizer
	classifier *classifier.LogisticRegression
	labelModel *labelmodel.LabelModel
	cache      *cache.ShardedLRU[Prediction]
	opts       options
}

// LoadPredictor loads the run CURRENT points to.
func LoadPredictor(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Predictor, error) {
	a, err := artifact.LoadLatest(ctx, store)
	if err != nil {
		return nil, translateError(err)
	}
	return NewPredictor(a, optFns...)
}

// LoadPredictorRun loads a specific run.
func LoadPredictorRun(ctx context.Context, store blobstore.BlobStore, runID string, optFns ...Option) (*Predictor, error) {
	a, err := artifact.Load(ctx, store, runID)
	if err != nil {
		return nil, translateError(err)
	}
	return NewPredictor(a, optFns...)
}

// NewPredictor restores the models of a.
func NewPredictor(a *artifact.Artifact, optFns ...Option) (*Predictor, error) {
	o := applyOptions(optFns)
	p := &Predictor{artifact: a, opts: o}
	if o.cacheSize > 0 {
		p.cache = cache.NewShardedLRU[Prediction](o.cacheSize)
	}

	if a.LabelModel != nil {
		lm, err := labelmodel.FromState(a.LabelModel)
		if err != nil {
			return nil, err
		}
		p.labelModel = lm
	}
	if a.HasClassifier() {
		vec, err := classifier.NewVectorizerFromState(a.Vectorizer)
		if err != nil {
			return nil, err
		}
		lr, err := classifier.NewLogisticRegressionFromState(a.Classifier)
		if err != nil {
			return nil, err
		}
		p.vectorizer, p.classifier = vec, lr
	}

	if o.registry != nil {
		if err := checkRegistry(o.registry, a.Functions); err != nil {
			return nil, err
		}
	}

	o.logger.WithRunID(a.RunID).Debug("predictor loaded",
		"functions", len(a.Functions),
		"classifier", a.HasClassifier(),
	)
	return p, nil
}

func checkRegistry(reg *labeling.Registry, functions []string) error {
	names := reg.Names()
	if len(names) != len(functions) {
		return &ShapeMismatchError{What: "labeling functions", Expected: len(functions), Actual: len(names)}
	}
	for i := range names {
		if names[i] != functions[i] {
			return &ShapeMismatchError{What: "labeling function " + functions[i] + " at column", Expected: i, Actual: slices.Index(names, functions[i])}
		}
	}
	return nil
}

// RunID returns the id of the loaded run.
func (p *Predictor) RunID() string { return p.artifact.RunID }

// Artifact returns the loaded artifact.
func (p *Predictor) Artifact() *artifact.Artifact { return p.artifact }

// Predict labels one text with the classifier.
func (p *Predictor) Predict(text string) (Prediction, error) {
	out, err := p.PredictBatch(context.Background(), []string{text})
	if err != nil {
		return Prediction{}, err
	}
	return out[0], nil
}

// PredictBatch labels texts with the classifier.
func (p *Predictor) PredictBatch(ctx context.Context, texts []string) (out []Prediction, err error) {
	start := time.Now()
	defer func() {
		p.opts.metricsCollector.RecordPredict(len(texts), time.Since(start), err)
		p.opts.logger.LogPredict(ctx, len(texts), err)
	}()

	if p.classifier == nil {
		return nil, ErrNoClassifier
	}

	out = make([]Prediction, len(texts))
	missing := make([]int, 0, len(texts))
	for i, text := range texts {
		if cached, ok := p.cacheGet(text); ok {
			out[i] = cached
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	batch := make([]string, len(missing))
	for k, i := range missing {
		batch[k] = texts[i]
	}
	X, err := p.vectorizer.Transform(batch)
	if err != nil {
		return nil, translateError(err)
	}
	probs, err := p.classifier.PredictProba(X)
	if err != nil {
		return nil, translateError(err)
	}

	for k, dist := range probs {
		pred := newPrediction(dist)
		out[missing[k]] = pred
		p.cacheSet(batch[k], pred)
	}
	return out, nil
}

// CacheStats returns the prediction cache hit and miss counters.
func (p *Predictor) CacheStats() (hits, misses int64) {
	if p.cache == nil {
		return 0, 0
	}
	return p.cache.Stats()
}

func (p *Predictor) cacheGet(text string) (Prediction, bool) {
	if p.cache == nil {
		return Prediction{}, false
	}
	pred, ok := p.cache.Get(text)
	if ok {
		// Callers own the returned slice.
		pred.Probabilities = slices.Clone(pred.Probabilities)
	}
	return pred, ok
}

func (p *Predictor) cacheSet(text string, pred Prediction) {
	if p.cache != nil {
		pred.Probabilities = slices.Clone(pred.Probabilities)
		p.cache.Set(text, pred)
	}
}

// Aggregate labels one text with the labeling functions and the label model,
// bypassing the classifier. It needs WithRegistry.
func (p *Predictor) Aggregate(ctx context.Context, text string) (pred Prediction, err error) {
	start := time.Now()
	defer func() {
		p.opts.metricsCollector.RecordPredict(1, time.Since(start), err)
	}()

	if p.opts.registry == nil {
		return Prediction{}, ErrNoRegistry
	}
	if p.labelModel == nil {
		return Prediction{}, labelmodel.ErrNotFitted
	}

	applier := labeling.NewApplier(p.opts.registry,
		labeling.WithWorkers(1),
		labeling.WithLogger(p.opts.logger.Logger),
	)
	L, _, err := applier.Apply(ctx, []model.Example{{Text: text}})
	if err != nil {
		return Prediction{}, err
	}
	dist, err := p.labelModel.PredictRow(L.Row(0))
	if err != nil {
		return Prediction{}, translateError(err)
	}
	return newPrediction(dist), nil
}
