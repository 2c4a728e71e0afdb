// Package labeling holds labeling functions, the registry that orders them,
// and the Applier that turns examples into a label matrix.
//
// A labeling function is a named, pure, deterministic heuristic mapping one
// text to a vote. The registry is built once and fixes the column order of
// every label matrix built from it:
//
//	reg, err := labeling.NewRegistry(
//	    labeling.Keywords("lf_hate", model.Negative, "үзэн ядаж"),
//	    labeling.Keywords("lf_nice", model.Positive, "гоё", "сайхан"),
//	)
//	L, report, err := labeling.NewApplier(reg).Apply(ctx, examples)
//
// A function that errors or panics on an example does not abort the pass:
// its vote becomes Abstain and the failure is reported.
//
// Analyze computes coverage, overlap and conflict diagnostics. They are
// informative only and are never consumed by the label model.
package labeling
