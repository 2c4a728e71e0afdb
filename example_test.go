package weaklabel_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/weaklabel"
	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/hupe1980/weaklabel/labeling"
	"github.com/hupe1980/weaklabel/model"
)

// Example_pipeline trains on a handful of examples and labels new text.
func Example_pipeline() {
	ctx := context.Background()

	reg := labeling.MustRegistry(
		labeling.Keywords("lf_negative", model.Negative, "муу"),
		labeling.Keywords("lf_positive", model.Positive, "сайн"),
	)
	examples := []model.Example{
		{ID: "1", Text: "муу юм аа"},
		{ID: "2", Text: "маш муу кино"},
		{ID: "3", Text: "сайн байна уу"},
		{ID: "4", Text: "сайн өдөр"},
		{ID: "5", Text: "өнөөдөр бороо орно"},
	}

	store := blobstore.NewMemoryStore()
	p, err := weaklabel.NewPipeline(reg, weaklabel.WithStore(store))
	if err != nil {
		log.Fatal(err)
	}
	res, err := p.Run(ctx, examples)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("pseudo labels: %d of %d\n", res.Filtered.Len(), len(examples))

	pred, err := weaklabel.LoadPredictor(ctx, store)
	if err != nil {
		log.Fatal(err)
	}
	out, err := pred.Predict("муу")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Label)
	// Output:
	// pseudo labels: 4 of 5
	// NEGATIVE
}

// ExampleBasicMetricsCollector shows how to read pipeline counters.
func ExampleBasicMetricsCollector() {
	metrics := &weaklabel.BasicMetricsCollector{}
	reg := labeling.MustRegistry(labeling.Keywords("lf_negative", model.Negative, "муу"))

	p, err := weaklabel.NewPipeline(reg, weaklabel.WithMetricsCollector(metrics))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := p.Run(context.Background(), []model.Example{
		{ID: "1", Text: "муу"},
		{ID: "2", Text: "бороо"},
	}); err != nil {
		log.Fatal(err)
	}

	stats := metrics.GetStats()
	fmt.Println(stats.ApplyRows, stats.PseudoLabelsKept, stats.PseudoLabelsDropped)
	// Output: 2 1 1
}
