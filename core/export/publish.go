package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"tablediff/core/storage"

	"github.com/minio/minio-go/v7"
)

// Publisher uploads export artifacts to object storage.
type Publisher struct {
	client     storage.Client
	bucket     string
	region     string
	compressor Compressor
}

// NewPublisher returns a publisher writing to bucket with the named compression.
func NewPublisher(client storage.Client, bucket, region, compression string) (*Publisher, error) {
	c, err := GetCompressor(compression)
	if err != nil {
		return nil, err
	}
	return &Publisher{client: client, bucket: bucket, region: region, compressor: c}, nil
}

// Published describes an uploaded artifact.
type Published struct {
	Bucket       string    `json:"bucket"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// ObjectKey returns the storage key for an artifact of run runID.
func ObjectKey(runID, filename string) string {
	return path.Join("exports", runID, filename)
}

// Publish compresses and uploads a, creating the bucket if needed.
func (p *Publisher) Publish(ctx context.Context, runID string, a *Artifact) (*Published, error) {
	if err := storage.EnsureBucket(ctx, p.client, p.bucket, p.region); err != nil {
		return nil, err
	}

	data, err := p.compressor.Compress(a.Content)
	if err != nil {
		return nil, err
	}

	key := ObjectKey(runID, a.Filename+p.compressor.Extension())
	info, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:     a.MIMEType,
		ContentEncoding: p.compressor.ContentEncoding(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return &Published{Bucket: p.bucket, Key: key, Size: info.Size, ETag: info.ETag}, nil
}

// List returns the artifacts published for run runID.
func (p *Publisher) List(ctx context.Context, runID string) ([]Published, error) {
	prefix := ObjectKey(runID, "") + "/"

	var out []Published
	for obj := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list exports of run %s: %w", runID, obj.Err)
		}
		out = append(out, Published{
			Bucket:       p.bucket,
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}
	return out, nil
}
