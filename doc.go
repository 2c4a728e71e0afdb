// Package weaklabel assigns probabilistic sentiment labels to unlabeled text
// and distills them into a deployable classifier.
//
// Many noisy labeling functions vote ABSTAIN, NEGATIVE or POSITIVE on every
// example. A label model estimates the reliability of each function from the
// agreement structure of the votes alone, without ground truth, and turns the
// votes of each example into a distribution over the true label. Examples that
// received at least one vote become pseudo-labeled training data for an n-gram
// logistic regression classifier.
//
// # Quick Start
//
// Training:
//
//	examples, _ := ingest.ReadDump(ctx, "./data")
//	p, _ := weaklabel.NewPipeline(sentiment.Registry(),
//	    weaklabel.WithStore(blobstore.NewLocalStore("./output")),
//	)
//	res, _ := p.Run(ctx, ingest.Dedupe(examples))
//	fmt.Println(res.Summary)
//	fmt.Println(res.Report)
//
// Inference:
//
//	pred, _ := weaklabel.LoadPredictor(ctx, blobstore.NewLocalStore("./output"))
//	out, _ := pred.Predict("эд нарыг үзэн ядаж байна")
//	fmt.Println(out.Label, out.Probability)
//
// # Packages
//
//   - labeling: labeling functions, registry, label matrix builder, diagnostics
//   - labelmodel: the label aggregation engine
//   - pseudolabel: filtering of uncovered examples, arg-max pseudo labels
//   - classifier: count vectorizer, logistic regression, classification report
//   - artifact: checksummed, compressed run artifacts
//   - blobstore: local, in-memory, S3, DynamoDB-committed and MinIO storage
//   - ingest: tweet dump readers
//   - sentiment: the Mongolian sentiment labeling functions
//
// # Observability
//
// Logging goes through log/slog (see Logger). Operational counters are
// reported to a MetricsCollector (see BasicMetricsCollector).
package weaklabel
