// Package blobstore abstracts where training runs and their artifacts are kept.
//
// A BlobStore holds named, immutable byte blobs. Writers use Put, which is
// atomic from a reader's point of view: a blob is either absent or complete.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads, temp file + rename writes
//   - MemoryStore: in-process map, for tests and ephemeral runs
//   - RetryStore: wraps another store with Fibonacci backoff
//   - s3.Store and s3.DDBCommitStore: Amazon S3, optionally with DynamoDB
//     conditional writes for the CURRENT pointer
//   - minio.Store: MinIO and other S3-compatible services
package blobstore
