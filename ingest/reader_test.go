package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/weaklabel/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "date,id,tweet,username\n" +
		"2021-05-01,1,\"муу, маш муу\",a\n" +
		"2021-05-01,2,   ,b\n" +
		"2021-05-02,3,сайн байна,c\n"

	got, err := ReadCSV(strings.NewReader(in), "dump.csv")
	require.NoError(t, err)
	assert.Equal(t, []model.Example{
		{ID: "1", Text: "муу, маш муу"},
		{ID: "3", Text: "сайн байна"},
	}, got)
}

func TestReadCSV_TextColumn(t *testing.T) {
	got, err := ReadCSV(strings.NewReader("\ufeffID,Text\n7,hi there\n"), "dump.csv")
	require.NoError(t, err)
	assert.Equal(t, []model.Example{{ID: "7", Text: "hi there"}}, got)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("id,user\n1,a\n"), "dump.csv")
	assert.ErrorIs(t, err, ErrMissingColumn)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "dump.csv", pe.Source)
	assert.Equal(t, 1, pe.Line)
}

func TestReadCSV_Empty(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""), "empty.csv")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadJSONL(t *testing.T) {
	in := `{"id": 1396662686042238981, "tweet": "Гоё сайхан үгс"}
{"id": "abc", "text": "fallback text"}

{"id": null, "tweet": "no id"}
{"id": 5, "tweet": ""}
`
	got, err := ReadJSONL(strings.NewReader(in), "dump.jsonl")
	require.NoError(t, err)
	assert.Equal(t, []model.Example{
		{ID: "1396662686042238981", Text: "Гоё сайхан үгс"},
		{ID: "abc", Text: "fallback text"},
	}, got)
}

func TestReadJSONL_Malformed(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"id\": 1, \"tweet\": \"ok\"}\n{broken\n"), "dump.jsonl")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

func TestReadDump_Directory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("b.csv", "id,tweet\n2,second\n")
	write("a.csv", "id,tweet\n1,first\n")
	write("twint/tweets.json", "{\"id\": 3, \"tweet\": \"third\"}\n")
	write("notes.txt", "ignored")
	write(".hidden/x.csv", "id,tweet\n9,hidden\n")

	got, err := ReadDump(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))

	single, err := ReadDump(context.Background(), filepath.Join(dir, "b.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(single))
}

func TestReadDump_Errors(t *testing.T) {
	_, err := ReadDump(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	p := filepath.Join(t.TempDir(), "dump.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	_, err = ReadDump(context.Background(), p)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("id,tweet\n1,x\n"), 0o644))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadDump(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]model.Example{
		{ID: "1", Text: "first"},
		{ID: "2", Text: "other"},
		{ID: "1", Text: "retweet"},
	})
	assert.Equal(t, []model.Example{{ID: "1", Text: "first"}, {ID: "2", Text: "other"}}, got)
}

func ids(examples []model.Example) []string {
	out := make([]string, len(examples))
	for i, ex := range examples {
		out[i] = ex.ID
	}
	return out
}
