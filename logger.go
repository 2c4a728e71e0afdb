package weaklabel

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/weaklabel/labelmodel"
)

// Logger wraps slog.Logger with weaklabel-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithRunID adds a run_id field to the logger.
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", runID),
	}
}

// LogApply logs a label matrix build.
func (l *Logger) LogApply(ctx context.Context, rows, functions, failures int, duration time.Duration) {
	if failures > 0 {
		l.WarnContext(ctx, "label matrix built with labeling function failures",
			"rows", rows,
			"functions", functions,
			"failures", failures,
			"duration", duration,
		)
		return
	}
	l.InfoContext(ctx, "label matrix built",
		"rows", rows,
		"functions", functions,
		"duration", duration,
	)
}

// LogFit logs the outcome of a label model fit.
func (l *Logger) LogFit(ctx context.Context, res *labelmodel.FitResult, err error) {
	if err != nil {
		l.ErrorContext(ctx, "label model fit failed", "error", err)
		return
	}
	if res.Termination != labelmodel.TerminationConverged {
		l.WarnContext(ctx, "label model did not converge",
			"termination", res.Termination.String(),
			"iterations", res.Iterations,
			"delta", res.Delta,
		)
		return
	}
	l.InfoContext(ctx, "label model fitted",
		"iterations", res.Iterations,
		"delta", res.Delta,
		"loss", res.Loss,
		"duration", res.Duration,
	)
}

// LogFilter logs the pseudo-label filter step.
func (l *Logger) LogFilter(ctx context.Context, kept, dropped int) {
	l.InfoContext(ctx, "pseudo labels materialized",
		"kept", kept,
		"dropped", dropped,
	)
}

// LogTrain logs a classifier training run.
func (l *Logger) LogTrain(ctx context.Context, samples, features, iterations int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "classifier training failed",
			"samples", samples,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "classifier trained",
		"samples", samples,
		"features", features,
		"iterations", iterations,
	)
}

// LogSave logs an artifact commit.
func (l *Logger) LogSave(ctx context.Context, runID string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "artifact save failed",
			"run_id", runID,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "artifact saved",
		"run_id", runID,
	)
}

// LogPredict logs a prediction batch.
func (l *Logger) LogPredict(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "predict failed",
			"count", count,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "predict completed",
		"count", count,
	)
}
