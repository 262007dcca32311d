// Package minio provides a mapsource.Source backed by MinIO or any
// S3-compatible object store.
package minio

import (
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/yiliangbetter/hdmap/mapsource"
)

// Source implements mapsource.Source for MinIO.
type Source struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewSource creates a MinIO map source. rootPrefix is prepended to all keys
// (e.g. "maps/").
func NewSource(client *minio.Client, bucket, rootPrefix string) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open opens the named map file as a stream.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)

	// Stat first so a missing object surfaces as ErrNotFound instead of
	// an error on first read.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, mapsource.ErrNotFound
		}
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
