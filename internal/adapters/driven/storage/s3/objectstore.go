// Package s3 provides an object store adapter for S3-compatible storage.
//
// It moves run artifacts (raw inputs, formatted documents, fault logs)
// between the local data directories and a bucket. Any S3-compatible
// backend works: AWS S3, OVH, MinIO.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/logger"
)

// Ensure ObjectStore implements the interface.
var _ driven.ObjectStore = (*ObjectStore)(nil)

const defaultRegion = "us-east-1"

// objectAPI is the subset of the S3 client the store uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectStore stores objects in a single bucket.
type ObjectStore struct {
	client objectAPI
	bucket string
}

// New creates an object store from storage settings.
// Static credentials are used when both keys are set; otherwise the
// default AWS credential chain applies.
// Returns domain.ErrStorageUnavailable if no bucket is configured.
func New(ctx context.Context, settings domain.StorageSettings) (*ObjectStore, error) {
	if !settings.Enabled() {
		return nil, domain.ErrStorageUnavailable
	}

	region := settings.Region
	if region == "" {
		region = defaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if settings.AccessKey != "" && settings.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := settings.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = settings.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return newObjectStore(client, settings.Bucket), nil
}

func newObjectStore(client objectAPI, bucket string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket}
}

// Download fetches key into destPath. The file is written next to its
// destination and renamed, so a failed download leaves no partial file.
func (s *ObjectStore) Download(ctx context.Context, key, destPath string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, copyErr := io.Copy(tmp, out.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", destPath, err)
	}

	logger.Debug("Downloaded s3://%s/%s (%d bytes)", s.bucket, key, n)
	return nil
}

// Upload stores the file at srcPath under key.
func (s *ObjectStore) Upload(ctx context.Context, srcPath, key string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", srcPath, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	logger.Debug("Uploaded %s to s3://%s/%s", srcPath, s.bucket, key)
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".gz"):
		return "application/gzip"
	case strings.HasSuffix(key, ".jsonl"):
		return "application/x-ndjson"
	case strings.HasSuffix(key, ".json"):
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}
