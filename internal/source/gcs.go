package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
)

// GCSSource reads an export stored as a Cloud Storage object. Credentials
// come from Application Default Credentials.
type GCSSource struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSSource returns a source for prefix/name in bucket. The client is
// shared and owned by the caller.
func NewGCSSource(client *storage.Client, bucket, prefix, name string) *GCSSource {
	return &GCSSource{
		client: client,
		bucket: bucket,
		object: path.Join(prefix, name),
	}
}

func (s *GCSSource) Stat(ctx context.Context) (Identity, error) {
	attrs, err := s.client.Bucket(s.bucket).Object(s.object).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return Identity{}, fmt.Errorf("stat gs://%s/%s: %w", s.bucket, s.object, ErrNotFound)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("stat gs://%s/%s: %w", s.bucket, s.object, err)
	}
	return Identity{
		Name:       "gs://" + s.bucket + "/" + s.object,
		ModTime:    attrs.Updated,
		Size:       attrs.Size,
		Generation: attrs.Generation,
	}, nil
}

func (s *GCSSource) Open(ctx context.Context) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.bucket, s.object, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	return r, nil
}
