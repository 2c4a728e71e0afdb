package artifact

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/weaklabel/classifier"
	"github.com/hupe1980/weaklabel/labeling"
	"github.com/hupe1980/weaklabel/labelmodel"
)

// RunStats counts the examples flowing through a training run.
type RunStats struct {
	Examples   int `json:"examples"`
	Pseudo     int `json:"pseudo_labels"`
	Dropped    int `json:"dropped"`
	LFFailures int `json:"lf_failures"`
}

// Artifact is the persisted result of a training run.
type Artifact struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`

	// Functions lists the labeling function names in column order.
	Functions []string `json:"functions"`

	LabelModel *labelmodel.State                `json:"label_model"`
	Vectorizer *classifier.VectorizerState      `json:"vectorizer,omitempty"`
	Classifier *classifier.LogisticState        `json:"classifier,omitempty"`
	Summary    *labeling.Summary                `json:"summary,omitempty"`
	Report     *classifier.ClassificationReport `json:"report,omitempty"`
	Stats      RunStats                         `json:"stats"`
}

// New returns an empty artifact with a fresh run id.
func New() *Artifact {
	return &Artifact{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// HasClassifier reports whether the artifact carries a trained classifier.
func (a *Artifact) HasClassifier() bool {
	return a.Vectorizer != nil && a.Classifier != nil
}
