// Package artifact persists the output of a training run.
//
// An artifact bundles everything inference needs (label model, vectorizer and
// classifier state) with the diagnostics of the run that produced it. It is
// stored under runs/<id>/artifact.bin in a blobstore.BlobStore; the CURRENT
// blob names the latest committed run.
//
// Binary layout of artifact.bin (little endian):
//
//	FileHeader (36 bytes)
//	codec name (FileHeader.CodecLen bytes)
//	payload    (FileHeader.DataSize bytes, compressed with FileHeader.Compression)
//
// The checksum is the CRC32 (IEEE) of the stored payload. It detects
// accidental corruption only.
package artifact
