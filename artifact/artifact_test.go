package artifact

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/hupe1980/weaklabel/classifier"
	"github.com/hupe1980/weaklabel/codec"
	"github.com/hupe1980/weaklabel/labelmodel"
	"github.com/hupe1980/weaklabel/model"
	"github.com/hupe1980/weaklabel/pseudolabel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifact() *Artifact {
	a := New()
	a.Functions = []string{"lf_bad", "lf_good"}
	a.LabelModel = &labelmodel.State{
		Cardinality:  3,
		ClassBalance: []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		CPT: [][][]float64{
			{{0.3, 0.3, 0.3}, {0.6, 0.1, 0.1}, {0.1, 0.6, 0.6}},
			{{1, 1, 1}, {0, 0, 0}, {0, 0, 0}},
		},
		Informative: []bool{true, false},
		Result: labelmodel.FitResult{
			Iterations:  42,
			Delta:       1e-8,
			Termination: labelmodel.TerminationConverged,
		},
	}
	a.Vectorizer = &classifier.VectorizerState{
		Config: classifier.DefaultVectorizerConfig(),
		Terms:  []string{"муу", "сайн", "сайхан"},
	}
	a.Classifier = &classifier.LogisticState{
		Config:      classifier.DefaultLogisticConfig(),
		NumFeatures: 3,
		Weights:     [][]float64{{0, 0, 0}, {1.5, -1, -0.5}, {-1.5, 1, 0.5}},
		Bias:        []float64{0, 0.1, -0.1},
		Iterations:  17,
	}
	a.Stats = RunStats{Examples: 6, Pseudo: 5, Dropped: 1}
	return a
}

func TestEncodeDecode_AllCompressions(t *testing.T) {
	in := testArtifact()

	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
			t.Run(ct.String()+"/"+c.Name(), func(t *testing.T) {
				b, err := Encode(in, c, ct)
				require.NoError(t, err)

				var out Artifact
				h, err := Decode(b, &out)
				require.NoError(t, err)
				assert.Equal(t, uint32(MagicNumber), h.Magic)
				assert.Equal(t, uint8(len(c.Name())), h.CodecLen)

				assert.Equal(t, in.RunID, out.RunID)
				assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
				assert.Equal(t, in.Functions, out.Functions)
				assert.Equal(t, in.LabelModel, out.LabelModel)
				assert.Equal(t, in.Vectorizer, out.Vectorizer)
				assert.Equal(t, in.Classifier, out.Classifier)
				assert.Equal(t, in.Stats, out.Stats)
			})
		}
	}
}

func TestCompress_FallsBackToRaw(t *testing.T) {
	data := make([]byte, 4096)
	_, err := rand.Read(data)
	require.NoError(t, err)

	for _, ct := range []CompressionType{CompressionLZ4, CompressionZSTD} {
		out, applied, err := compress(data, ct)
		require.NoError(t, err)
		assert.Equal(t, CompressionNone, applied, ct.String())
		assert.Equal(t, data, out)
	}
}

func TestCompress_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("сайн байна уу "), 512)

	for _, ct := range []CompressionType{CompressionLZ4, CompressionZSTD} {
		out, applied, err := compress(data, ct)
		require.NoError(t, err)
		require.Equal(t, ct, applied)
		assert.Less(t, len(out), len(data))

		got, err := decompress(out, applied, uint64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestDecode_Corruption(t *testing.T) {
	b, err := Encode(testArtifact(), codec.Default, CompressionZSTD)
	require.NoError(t, err)

	t.Run("payload", func(t *testing.T) {
		bad := bytes.Clone(b)
		bad[len(bad)-1] ^= 0xff
		var out Artifact
		_, err := Decode(bad, &out)
		var ce *ChecksumError
		assert.ErrorAs(t, err, &ce)
	})

	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(b)
		bad[0] ^= 0xff
		var out Artifact
		_, err := Decode(bad, &out)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("truncated", func(t *testing.T) {
		var out Artifact
		_, err := Decode(b[:len(b)-10], &out)
		assert.ErrorIs(t, err, ErrTruncated)

		_, err = Decode(b[:10], &out)
		assert.ErrorIs(t, err, ErrTruncated)
	})
}

func TestParseCompression(t *testing.T) {
	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(strings.ToUpper(ct.String()))
		require.NoError(t, err)
		assert.Equal(t, ct, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

type renamedCodec struct{ codec.JSON }

func (renamedCodec) Name() string { return "msgpack" }

func TestCodecByName(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		got, err := CodecByName(c.Name())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := CodecByName("gob")
	assert.ErrorIs(t, err, ErrUnknownCodec)

	// Readers refuse payloads written by a codec they cannot name.
	b, err := Encode(testArtifact(), renamedCodec{}, CompressionNone)
	require.NoError(t, err)
	var out Artifact
	_, err = Decode(b, &out)
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestSaveLoadLatest(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := LoadLatest(ctx, store)
	require.ErrorIs(t, err, ErrNoRuns)

	first := testArtifact()
	require.NoError(t, Save(ctx, store, first, WithCompression(CompressionLZ4)))
	second := testArtifact()
	require.NoError(t, Save(ctx, store, second, WithCodec(codec.JSON{})))

	current, err := Current(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, current)

	latest, err := LoadLatest(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, latest.RunID)

	old, err := Load(ctx, store, first.RunID)
	require.NoError(t, err)
	assert.Equal(t, first.LabelModel, old.LabelModel)

	runs, err := ListRuns(ctx, store)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.RunID, second.RunID}, runs)
}

func TestSave_LocalStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())

	a := testArtifact()
	require.NoError(t, Save(ctx, store, a))

	got, err := LoadLatest(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, a.Classifier, got.Classifier)
	assert.True(t, got.HasClassifier())
}

func TestLoad_InvalidRunID(t *testing.T) {
	_, err := Load(context.Background(), blobstore.NewMemoryStore(), "../etc")
	assert.Error(t, err)

	a := testArtifact()
	a.RunID = "latest"
	assert.Error(t, Save(context.Background(), blobstore.NewMemoryStore(), a))
}

func TestSavePseudoLabels(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	a := New()

	f := &pseudolabel.Filtered{
		Examples: []model.Example{{ID: "1", Text: "муу, \"маш\" муу"}, {ID: "3", Text: "сайн"}},
		Labels:   []model.Label{model.Negative, model.Positive},
		Probs:    [][]float64{{0.1, 0.8, 0.1}, {0.05, 0.15, 0.8}},
		Indices:  []int{0, 2},
	}
	require.NoError(t, SavePseudoLabels(ctx, store, a.RunID, f))

	data, err := blobstore.ReadAll(ctx, store, PseudoLabelPath(a.RunID))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "text", "label", "p_abstain", "p_negative", "p_positive"}, records[0])
	assert.Equal(t, []string{"1", "муу, \"маш\" муу", "NEGATIVE", "0.100000", "0.800000", "0.100000"}, records[1])
	assert.Equal(t, "POSITIVE", records[2][2])
}
