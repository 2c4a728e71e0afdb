package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic is returned when a blob is not an artifact.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for an unsupported format version.
	ErrInvalidVersion = errors.New("unsupported artifact version")
	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression")
	// ErrUnknownCodec is returned when the header names a codec this build does not know.
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrTruncated is returned when the blob is shorter than its header claims.
	ErrTruncated = errors.New("artifact truncated")
	// ErrNoRuns is returned by LoadLatest when nothing was committed yet.
	ErrNoRuns = errors.New("no committed run")
)

// ChecksumError reports a payload whose CRC32 does not match the header.
type ChecksumError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("artifact checksum mismatch: expected %08x, got %08x", e.Expected, e.Actual)
}
