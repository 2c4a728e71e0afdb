package artifact

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/hupe1980/weaklabel/codec"
	"github.com/hupe1980/weaklabel/model"
	"github.com/hupe1980/weaklabel/pseudolabel"
)

const (
	// CurrentName is the blob holding the id of the latest committed run.
	CurrentName = "CURRENT"

	runsPrefix      = "runs/"
	artifactName    = "artifact.bin"
	pseudoLabelName = "pseudo_labels.csv"
)

// ArtifactPath returns the blob name of a run's artifact.
func ArtifactPath(runID string) string {
	return path.Join("runs", runID, artifactName)
}

// PseudoLabelPath returns the blob name of a run's pseudo labels.
func PseudoLabelPath(runID string) string {
	return path.Join("runs", runID, pseudoLabelName)
}

type options struct {
	codec       codec.Codec
	compression CompressionType
	logger      *slog.Logger
}

// Option configures Save.
type Option func(*options)

// WithCodec sets the payload codec.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the payload compression.
func WithCompression(ct CompressionType) Option {
	return func(o *options) {
		o.compression = ct
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:       codec.Default,
		compression: CompressionZSTD,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Save writes the artifact and then commits it as CURRENT.
// A reader never observes CURRENT pointing to a run whose artifact is missing.
func Save(ctx context.Context, store blobstore.BlobStore, a *Artifact, optFns ...Option) error {
	if a == nil {
		return errors.New("artifact: nil artifact")
	}
	if err := validateRunID(a.RunID); err != nil {
		return err
	}
	o := applyOptions(optFns)

	data, err := Encode(a, o.codec, o.compression)
	if err != nil {
		return err
	}
	name := ArtifactPath(a.RunID)
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("artifact: write %s: %w", name, err)
	}
	if err := store.Put(ctx, CurrentName, []byte(a.RunID)); err != nil {
		return fmt.Errorf("artifact: commit %s: %w", a.RunID, err)
	}

	o.logger.InfoContext(ctx, "artifact committed",
		"run_id", a.RunID,
		"bytes", len(data),
		"codec", o.codec.Name(),
		"compression", o.compression.String(),
	)
	return nil
}

// Load reads the artifact of one run.
func Load(ctx context.Context, store blobstore.BlobStore, runID string) (*Artifact, error) {
	if err := validateRunID(runID); err != nil {
		return nil, err
	}
	name := ArtifactPath(runID)
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", name, err)
	}
	var a Artifact
	if _, err := Decode(data, &a); err != nil {
		return nil, fmt.Errorf("artifact: %s: %w", name, err)
	}
	return &a, nil
}

// Current returns the id of the latest committed run.
func Current(ctx context.Context, store blobstore.BlobStore) (string, error) {
	data, err := blobstore.ReadAll(ctx, store, CurrentName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return "", ErrNoRuns
		}
		return "", fmt.Errorf("artifact: read %s: %w", CurrentName, err)
	}
	runID := strings.TrimSpace(string(data))
	if runID == "" {
		return "", ErrNoRuns
	}
	return runID, nil
}

// LoadLatest reads the artifact CURRENT points to.
func LoadLatest(ctx context.Context, store blobstore.BlobStore) (*Artifact, error) {
	runID, err := Current(ctx, store)
	if err != nil {
		return nil, err
	}
	return Load(ctx, store, runID)
}

// ListRuns returns the ids of all stored runs, sorted.
func ListRuns(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	names, err := store.List(ctx, runsPrefix)
	if err != nil {
		return nil, err
	}
	var runs []string
	for _, name := range names {
		dir, file := path.Split(strings.TrimPrefix(name, runsPrefix))
		if file == artifactName && dir != "" {
			runs = append(runs, strings.TrimSuffix(dir, "/"))
		}
	}
	return runs, nil
}

// SavePseudoLabels writes the filtered examples as CSV with one probability
// column per class.
func SavePseudoLabels(ctx context.Context, store blobstore.BlobStore, runID string, f *pseudolabel.Filtered) error {
	if err := validateRunID(runID); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WritePseudoLabels(&buf, f); err != nil {
		return err
	}
	name := PseudoLabelPath(runID)
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("artifact: write %s: %w", name, err)
	}
	return nil
}

// WritePseudoLabels renders f as CSV: id, text, label, then p_<label> per class.
func WritePseudoLabels(out io.Writer, f *pseudolabel.Filtered) error {
	w := csv.NewWriter(out)

	header := []string{"id", "text", "label"}
	if f.Len() > 0 {
		for k := range f.Probs[0] {
			header = append(header, "p_"+strings.ToLower(model.Label(k).String()))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, ex := range f.Examples {
		rec := []string{ex.ID, ex.Text, f.Labels[i].String()}
		for _, p := range f.Probs[i] {
			rec = append(rec, strconv.FormatFloat(p, 'f', 6, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func validateRunID(runID string) error {
	if _, err := uuid.Parse(runID); err != nil {
		return fmt.Errorf("artifact: invalid run id %q: %w", runID, err)
	}
	return nil
}
