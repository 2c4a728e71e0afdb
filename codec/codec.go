// Package codec centralizes artifact encoding.
//
// Artifacts record the codec name in their header, so a reader always decodes
// with the codec the writer used. Changing Default only affects new runs.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}
