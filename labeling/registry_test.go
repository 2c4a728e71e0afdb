package labeling

import (
	"testing"

	"github.com/hupe1980/weaklabel/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(
		Keywords("neg", model.Negative, "bad"),
		Keywords("pos", model.Positive, "good"),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"neg", "pos"}, reg.Names())
	assert.Equal(t, "pos", reg.At(1).Name())

	j, ok := reg.Index("neg")
	assert.True(t, ok)
	assert.Equal(t, 0, j)

	_, ok = reg.Index("missing")
	assert.False(t, ok)

	var names []string
	for _, lf := range reg.All() {
		names = append(names, lf.Name())
	}
	assert.Equal(t, reg.Names(), names)
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry(Keywords("a", model.Negative, "x"), Keywords("a", model.Positive, "y"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = NewRegistry(Keywords("", model.Negative, "x"))
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewRegistry(New("nil", nil))
	assert.ErrorIs(t, err, ErrNilFunc)

	assert.Panics(t, func() { MustRegistry(New("nil", nil)) })
}

func TestKeywords(t *testing.T) {
	lf := Keywords("hate", model.Negative, "Үзэн ядаж", "  ")

	vote, err := lf.Apply("Эд нарыг ҮЗЭН ЯДАЖ байна")
	require.NoError(t, err)
	assert.Equal(t, model.Negative, vote)

	vote, err = lf.Apply("сайхан өдөр")
	require.NoError(t, err)
	assert.Equal(t, model.Abstain, vote)
}

func TestRegexp(t *testing.T) {
	lf, err := Regexp("smile", model.Positive, `[:;]-?\)`)
	require.NoError(t, err)

	vote, err := lf.Apply("nice :)")
	require.NoError(t, err)
	assert.Equal(t, model.Positive, vote)

	vote, err = lf.Apply("meh")
	require.NoError(t, err)
	assert.Equal(t, model.Abstain, vote)

	_, err = Regexp("broken", model.Positive, `(`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustRegexp("broken", model.Positive, `(`) })
}
