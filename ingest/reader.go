package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/weaklabel/model"
)

type options struct {
	logger *slog.Logger
}

// Option configures ReadDump.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// ReadDump reads a dump file, or every dump file below a directory.
func ReadDump(ctx context.Context, path string, optFns ...Option) ([]model.Example, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return readFile(path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isDumpFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)

	var examples []model.Example
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		exs, err := readFile(f)
		if err != nil {
			return nil, err
		}
		o.logger.DebugContext(ctx, "dump file read", "file", f, "examples", len(exs))
		examples = append(examples, exs...)
	}
	o.logger.InfoContext(ctx, "dump read", "path", path, "files", len(files), "examples", len(examples))
	return examples, nil
}

func isDumpFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".json", ".jsonl":
		return true
	default:
		return false
	}
}

func readFile(path string) ([]model.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f, path)
	case ".json", ".jsonl":
		return ReadJSONL(f, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadCSV reads a CSV dump. source names the input in errors.
func ReadCSV(r io.Reader, source string) ([]model.Example, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &ParseError{Source: source, Line: 1, Err: err}
	}

	idCol, textCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "id":
			idCol = i
		case "tweet":
			textCol = i
		case "text":
			if textCol < 0 {
				textCol = i
			}
		}
	}
	if idCol < 0 {
		return nil, &ParseError{Source: source, Line: 1, Err: fmt.Errorf("%w: id", ErrMissingColumn)}
	}
	if textCol < 0 {
		return nil, &ParseError{Source: source, Line: 1, Err: fmt.Errorf("%w: tweet or text", ErrMissingColumn)}
	}

	var examples []model.Example
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{Source: source, Line: line, Err: err}
		}
		if idCol >= len(rec) || textCol >= len(rec) {
			continue
		}
		if ex, ok := newExample(rec[idCol], rec[textCol]); ok {
			examples = append(examples, ex)
		}
	}
	return examples, nil
}

type jsonRecord struct {
	ID    gojson.RawMessage `json:"id"`
	Tweet string            `json:"tweet"`
	Text  string            `json:"text"`
}

// ReadJSONL reads a JSON-lines dump. Numeric ids are kept in their literal form.
func ReadJSONL(r io.Reader, source string) ([]model.Example, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var examples []model.Example
	for line := 1; sc.Scan(); line++ {
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}

		var rec jsonRecord
		if err := gojson.Unmarshal(b, &rec); err != nil {
			return nil, &ParseError{Source: source, Line: line, Err: err}
		}
		id, err := rawID(rec.ID)
		if err != nil {
			return nil, &ParseError{Source: source, Line: line, Err: err}
		}
		text := rec.Tweet
		if text == "" {
			text = rec.Text
		}
		if ex, ok := newExample(id, text); ok {
			examples = append(examples, ex)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	return examples, nil
}

func rawID(raw gojson.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := gojson.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(raw), nil
}

func newExample(id, text string) (model.Example, bool) {
	id = strings.TrimSpace(id)
	text = strings.TrimSpace(text)
	if id == "" || text == "" {
		return model.Example{}, false
	}
	return model.Example{ID: id, Text: text}, true
}

// Dedupe keeps the first occurrence of every id.
func Dedupe(examples []model.Example) []model.Example {
	seen := make(map[string]struct{}, len(examples))
	out := make([]model.Example, 0, len(examples))
	for _, ex := range examples {
		if _, ok := seen[ex.ID]; ok {
			continue
		}
		seen[ex.ID] = struct{}{}
		out = append(out, ex)
	}
	return out
}
