package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for a file whose extension is not understood.
	ErrUnsupportedFormat = errors.New("unsupported dump format")
	// ErrMissingColumn is returned when a CSV header lacks the id or text column.
	ErrMissingColumn = errors.New("missing column")
)

// ParseError locates a malformed record.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
