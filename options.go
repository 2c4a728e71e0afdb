package weaklabel

import (
	"log/slog"

	"github.com/hupe1980/weaklabel/artifact"
	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/hupe1980/weaklabel/classifier"
	"github.com/hupe1980/weaklabel/codec"
	"github.com/hupe1980/weaklabel/labeling"
	"github.com/hupe1980/weaklabel/labelmodel"
	"github.com/hupe1980/weaklabel/model"
)

type options struct {
	store            blobstore.BlobStore
	codec            codec.Codec
	compression      artifact.CompressionType
	labelModel       labelmodel.Config
	vectorizer       classifier.VectorizerConfig
	logistic         classifier.LogisticConfig
	workers          int
	gold             []model.Label
	registry         *labeling.Registry
	savePseudoLabels bool
	cacheSize        int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Pipeline or a Predictor.
type Option func(*options)

// WithStore persists every successful run to store.
// Without a store, Run returns the artifact without saving it.
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCodec configures the codec used for artifact payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures artifact payload compression.
func WithCompression(ct artifact.CompressionType) Option {
	return func(o *options) {
		o.compression = ct
	}
}

// WithLabelModelConfig configures the label aggregation engine.
func WithLabelModelConfig(cfg labelmodel.Config) Option {
	return func(o *options) {
		o.labelModel = cfg
	}
}

// WithVectorizerConfig configures the n-gram vectorizer.
func WithVectorizerConfig(cfg classifier.VectorizerConfig) Option {
	return func(o *options) {
		o.vectorizer = cfg
	}
}

// WithLogisticConfig configures the downstream classifier.
func WithLogisticConfig(cfg classifier.LogisticConfig) Option {
	return func(o *options) {
		o.logistic = cfg
	}
}

// WithWorkers bounds the parallelism of the label matrix builder and the
// moment statistics. Values <= 0 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithGoldLabels adds empirical accuracy to the labeling function summary.
// labels must hold one label per example passed to Run. They are used for
// diagnostics only and never influence the label model.
func WithGoldLabels(labels []model.Label) Option {
	return func(o *options) {
		o.gold = labels
	}
}

// WithPseudoLabels controls whether Run stores runs/<id>/pseudo_labels.csv.
// Enabled by default.
func WithPseudoLabels(enabled bool) Option {
	return func(o *options) {
		o.savePseudoLabels = enabled
	}
}

// WithRegistry gives a Predictor the labeling functions its artifact was
// trained with, enabling Aggregate.
func WithRegistry(reg *labeling.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithPredictionCache lets a Predictor reuse classifier predictions for up to
// size recently seen texts. Values <= 0 disable the cache.
func WithPredictionCache(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &weaklabel.BasicMetricsCollector{}
//	p, _ := weaklabel.NewPipeline(reg, weaklabel.WithMetricsCollector(metrics))
//	// ... p.Run(ctx, examples) ...
//	stats := metrics.GetStats()
//	fmt.Printf("Fits: %d, not converged: %d\n", stats.FitCount, stats.FitNotConverged)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := weaklabel.NewJSONLogger(slog.LevelInfo)
//	p, _ := weaklabel.NewPipeline(reg, weaklabel.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      artifact.CompressionZSTD,
		labelModel:       labelmodel.DefaultConfig(),
		vectorizer:       classifier.DefaultVectorizerConfig(),
		logistic:         classifier.DefaultLogisticConfig(),
		savePseudoLabels: true,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers > 0 {
		o.labelModel.Workers = o.workers
	}
	return o
}
