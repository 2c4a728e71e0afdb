package artifact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/hupe1980/weaklabel/codec"
)

const (
	// MagicNumber identifies artifact files (ASCII: "WLA1").
	MagicNumber = 0x574c4131
	// Version is the current format version.
	Version = 1

	headerSize = 36
)

// FileHeader is the fixed-size header at the start of every artifact.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Compression CompressionType
	CodecLen    uint8
	Padding     [2]byte
	RawSize     uint64 // encoded size before compression
	DataSize    uint64 // stored payload size
	Checksum    uint32 // CRC32 of the stored payload
	Reserved    [4]byte
}

// CodecByName returns the built-in codec recorded under name in artifact
// headers.
func CodecByName(name string) (codec.Codec, error) {
	switch name {
	case codec.JSON{}.Name():
		return codec.JSON{}, nil
	case codec.GoJSON{}.Name():
		return codec.GoJSON{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Encode serializes v with c, compresses it with ct and frames the result.
func Encode(v any, c codec.Codec, ct CompressionType) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	name := c.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("codec name %q too long", name)
	}

	raw, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode with %s: %w", name, err)
	}
	data, applied, err := compress(raw, ct)
	if err != nil {
		return nil, fmt.Errorf("compress with %s: %w", ct, err)
	}

	h := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: applied,
		CodecLen:    uint8(len(name)),
		RawSize:     uint64(len(raw)),
		DataSize:    uint64(len(data)),
		Checksum:    crc32.ChecksumIEEE(data),
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(name) + len(data))
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	buf.WriteString(name)
	buf.Write(data)
	return buf.Bytes(), nil
}

// Decode verifies a framed blob and decodes its payload into v.
func Decode(b []byte, v any) (*FileHeader, error) {
	r := bytes.NewReader(b)

	var h FileHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrTruncated
		}
		return nil, err
	}
	if h.Magic != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}

	rest := b[headerSize:]
	if uint64(len(rest)) < uint64(h.CodecLen)+h.DataSize {
		return nil, ErrTruncated
	}
	name := string(rest[:h.CodecLen])
	data := rest[h.CodecLen : uint64(h.CodecLen)+h.DataSize]

	if sum := crc32.ChecksumIEEE(data); sum != h.Checksum {
		return nil, &ChecksumError{Expected: h.Checksum, Actual: sum}
	}

	c, err := CodecByName(name)
	if err != nil {
		return nil, err
	}
	raw, err := decompress(data, h.Compression, h.RawSize)
	if err != nil {
		return nil, fmt.Errorf("decompress with %s: %w", h.Compression, err)
	}
	if err := c.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("decode with %s: %w", name, err)
	}
	return &h, nil
}
