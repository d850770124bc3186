// Package blobstore provides a [webasset.Provider] backed by a blob storage
// bucket, using the Go CDK (gocloud.dev/blob). Amazon S3, Google Cloud
// Storage, Azure Blob Storage, and in-memory buckets are supported.
//
// Since buckets have no real directories, a directory is any prefix ending in
// "/" that has at least one key beneath it.
//
// Buckets can't report changes, so WatchPath and Watch always fail with
// [webasset.ErrWatchUnsupported].
package blobstore
