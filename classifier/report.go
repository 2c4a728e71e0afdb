package classifier

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/weaklabel/model"
)

// ClassMetrics holds precision, recall and F1 of one class or an average.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassReport is the metrics of a single label.
type ClassReport struct {
	Label model.Label `json:"label"`
	ClassMetrics
}

// ClassificationReport summarizes predictions against reference labels.
type ClassificationReport struct {
	Classes     []ClassReport `json:"classes"`
	Accuracy    float64       `json:"accuracy"`
	MacroAvg    ClassMetrics  `json:"macro_avg"`
	WeightedAvg ClassMetrics  `json:"weighted_avg"`
}

// Report compares yPred against yTrue. Classes are the labels that appear in
// either slice, in label order. Undefined ratios are reported as zero.
func Report(yTrue, yPred []model.Label) (*ClassificationReport, error) {
	if len(yTrue) != len(yPred) {
		return nil, &ShapeError{What: "predictions", Expected: len(yTrue), Actual: len(yPred)}
	}

	var labels []model.Label
	for _, l := range slices.Concat(yTrue, yPred) {
		if !slices.Contains(labels, l) {
			labels = append(labels, l)
		}
	}
	slices.Sort(labels)

	r := &ClassificationReport{}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	if len(yTrue) > 0 {
		r.Accuracy = float64(correct) / float64(len(yTrue))
	}

	for _, l := range labels {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yTrue[i] == l && yPred[i] == l:
				tp++
			case yTrue[i] != l && yPred[i] == l:
				fp++
			case yTrue[i] == l && yPred[i] != l:
				fn++
			}
		}
		m := ClassMetrics{
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.Classes = append(r.Classes, ClassReport{Label: l, ClassMetrics: m})
	}

	if n := len(r.Classes); n > 0 {
		total := len(yTrue)
		for _, c := range r.Classes {
			r.MacroAvg.Precision += c.Precision / float64(n)
			r.MacroAvg.Recall += c.Recall / float64(n)
			r.MacroAvg.F1 += c.F1 / float64(n)
			if total > 0 {
				w := float64(c.Support) / float64(total)
				r.WeightedAvg.Precision += c.Precision * w
				r.WeightedAvg.Recall += c.Recall * w
				r.WeightedAvg.F1 += c.F1 * w
			}
		}
		r.MacroAvg.Support = total
		r.WeightedAvg.Support = total
	}
	return r, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// String renders the report as a table.
func (r *ClassificationReport) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(w, "\tprecision\trecall\tf1-score\tsupport\t")
	for _, c := range r.Classes {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintln(w, "\t\t\t\t\t")
	fmt.Fprintf(w, "accuracy\t\t\t%.2f\t%d\t\n", r.Accuracy, r.MacroAvg.Support)
	for _, row := range []struct {
		name string
		m    ClassMetrics
	}{{"macro avg", r.MacroAvg}, {"weighted avg", r.WeightedAvg}} {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", row.name, row.m.Precision, row.m.Recall, row.m.F1, row.m.Support)
	}
	_ = w.Flush()
	return sb.String()
}
