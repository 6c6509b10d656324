// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the narrow Client interface used to publish
// comparison exports. The same client works against AWS S3 and self-hosted MinIO.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: EnsureBucket creates the export bucket on demand.
//   - PutObject: uploads an export artifact.
//   - ListObjects: lists the artifacts published for a run.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
