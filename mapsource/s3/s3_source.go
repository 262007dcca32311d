// Package s3 provides a mapsource.Source backed by Amazon S3, for pulling
// HD-map files distributed through object storage.
package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/yiliangbetter/hdmap/mapsource"
)

// Source implements mapsource.Source for S3.
type Source struct {
	client     *s3.Client
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// NewSource creates an S3 map source. rootPrefix is prepended to all keys
// (e.g. "maps/").
func NewSource(client *s3.Client, bucket, rootPrefix string) *Source {
	return &Source{
		client:     client,
		downloader: manager.NewDownloader(client),
		bucket:     bucket,
		prefix:     rootPrefix,
	}
}

// NewSourceFromDefaultConfig creates an S3 map source using the default AWS
// credential and region chain.
func NewSourceFromDefaultConfig(ctx context.Context, bucket, rootPrefix string) (*Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewSource(s3.NewFromConfig(cfg), bucket, rootPrefix), nil
}

func (s *Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open downloads the named map file. Map files are small under embedded
// memory budgets, so the whole object is fetched up front with the
// concurrent downloader rather than streamed.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, mapsource.ErrNotFound
		}
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, mapsource.ErrNotFound
		}
		return nil, err
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, aws.ToInt64(head.ContentLength)))
	if _, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}
