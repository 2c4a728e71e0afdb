// Package s3 stores training runs in Amazon S3.
//
// Store implements blobstore.BlobStore with ranged GETs for reads and the
// S3 upload manager for writes. DDBCommitStore layers DynamoDB conditional
// writes on top so that concurrent trainers cannot overwrite each other's
// CURRENT pointer.
package s3
