// Command weaklabel trains a sentiment classifier from weak supervision and
// labels text with the latest trained run.
//
// Usage:
//
//	weaklabel train [-data path]
//	weaklabel predict [-run id] [-aggregate] <text>...
//	weaklabel runs
//
// Configuration is read from the environment and an optional .env file
// (see internal/config).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/hupe1980/weaklabel"
	"github.com/hupe1980/weaklabel/artifact"
	"github.com/hupe1980/weaklabel/classifier"
	"github.com/hupe1980/weaklabel/ingest"
	"github.com/hupe1980/weaklabel/internal/config"
	"github.com/hupe1980/weaklabel/labelmodel"
	"github.com/hupe1980/weaklabel/sentiment"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  train     label a tweet dump, fit the label model and train the classifier")
	fmt.Fprintln(os.Stderr, "  predict   label text with the latest run")
	fmt.Fprintln(os.Stderr, "  runs      list stored runs")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := setupLogger(cfg)
	slog.SetDefault(logger.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "train":
		err = runTrain(ctx, cfg, logger, os.Args[2:])
	case "predict":
		err = runPredict(ctx, cfg, logger, os.Args[2:])
	case "runs":
		err = runList(ctx, cfg, logger)
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) *weaklabel.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return weaklabel.NewJSONLogger(level)
	}
	return weaklabel.NewTextLogger(level)
}

func runTrain(ctx context.Context, cfg *config.Config, logger *weaklabel.Logger, args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	data := fs.String("data", cfg.DataPath, "dump file or directory (csv, json, jsonl)")
	noPseudo := fs.Bool("no-pseudo-labels", false, "do not store pseudo_labels.csv")
	_ = fs.Parse(args)

	c, err := artifact.CodecByName(cfg.Codec)
	if err != nil {
		return err
	}
	compression, err := artifact.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, logger.Logger)
	if err != nil {
		return err
	}

	examples, err := ingest.ReadDump(ctx, *data, ingest.WithLogger(logger.Logger))
	if err != nil {
		return err
	}
	total := len(examples)
	examples = ingest.Dedupe(examples)
	logger.Info("examples loaded", "path", *data, "examples", len(examples), "duplicates", total-len(examples))

	lmCfg := labelmodel.DefaultConfig()
	lmCfg.Epochs = cfg.Epochs
	lmCfg.Seed = cfg.Seed
	lmCfg.LearningRate = cfg.LearningRate

	vecCfg := classifier.DefaultVectorizerConfig()
	vecCfg.MaxFeatures = cfg.MaxFeatures

	lrCfg := classifier.DefaultLogisticConfig()
	lrCfg.C = cfg.C

	p, err := weaklabel.NewPipeline(sentiment.Registry(),
		weaklabel.WithStore(store),
		weaklabel.WithCodec(c),
		weaklabel.WithCompression(compression),
		weaklabel.WithLabelModelConfig(lmCfg),
		weaklabel.WithVectorizerConfig(vecCfg),
		weaklabel.WithLogisticConfig(lrCfg),
		weaklabel.WithWorkers(cfg.Workers),
		weaklabel.WithPseudoLabels(!*noPseudo),
		weaklabel.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx, examples)
	if err != nil {
		return err
	}

	fmt.Println(res.Summary)
	for _, w := range res.Warnings {
		fmt.Println("warning:", w)
	}
	if res.Report != nil {
		fmt.Println(res.Report)
	}
	fmt.Printf("run %s: %d examples, %d pseudo labels, %d dropped\n",
		res.RunID, len(examples), res.Filtered.Len(), res.Filtered.Dropped(len(examples)))
	return nil
}

func runPredict(ctx context.Context, cfg *config.Config, logger *weaklabel.Logger, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	runID := fs.String("run", "", "run id (default: CURRENT)")
	aggregate := fs.Bool("aggregate", false, "use the labeling functions and the label model instead of the classifier")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return errors.New("predict needs at least one text")
	}

	store, err := openStore(ctx, cfg, logger.Logger)
	if err != nil {
		return err
	}

	opts := []weaklabel.Option{
		weaklabel.WithLogger(logger),
		weaklabel.WithPredictionCache(cfg.PredictionCache),
	}
	if *aggregate {
		opts = append(opts, weaklabel.WithRegistry(sentiment.Registry()))
	}

	var pred *weaklabel.Predictor
	if *runID != "" {
		pred, err = weaklabel.LoadPredictorRun(ctx, store, *runID, opts...)
	} else {
		pred, err = weaklabel.LoadPredictor(ctx, store, opts...)
	}
	if err != nil {
		return err
	}

	texts := fs.Args()
	out := make([]weaklabel.Prediction, len(texts))
	if *aggregate {
		for i, t := range texts {
			if out[i], err = pred.Aggregate(ctx, t); err != nil {
				return err
			}
		}
	} else if out, err = pred.PredictBatch(ctx, texts); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, t := range texts {
		fmt.Fprintf(w, "%s\t=> %s (%.3f)\n", t, out[i].Label, out[i].Probability)
	}
	return w.Flush()
}

func runList(ctx context.Context, cfg *config.Config, logger *weaklabel.Logger) error {
	store, err := openStore(ctx, cfg, logger.Logger)
	if err != nil {
		return err
	}
	runs, err := artifact.ListRuns(ctx, store)
	if err != nil {
		return err
	}
	current, err := artifact.Current(ctx, store)
	if err != nil && !errors.Is(err, artifact.ErrNoRuns) {
		return err
	}
	for _, r := range runs {
		marker := " "
		if r == current {
			marker = "*"
		}
		fmt.Println(marker, r)
	}
	return nil
}
