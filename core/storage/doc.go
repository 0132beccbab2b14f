// Package storage provides an S3/MinIO-backed object store used to archive
// sync reports.
//
// The Client interface wraps the subset of minio operations the application
// needs, so consumers can be tested against the mock in storage/mocks.
package storage
