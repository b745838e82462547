// Package s3 implements storage.Bucket on an S3-compatible object store.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/storage"
)

// API is the subset of the S3 client the bucket uses.
type API interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// Options configures the S3 connection.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS; set for MinIO, Supabase storage and friends
	AccessKey string
	SecretKey string
	PublicURL string // base URL objects are served from
}

// Bucket stores objects in one S3 bucket.
type Bucket struct {
	api       API
	bucket    string
	publicURL string
}

var _ storage.Bucket = (*Bucket)(nil)

// New loads AWS configuration and creates a bucket client. Static
// credentials are used when both keys are set; otherwise the default
// credential chain applies.
func New(ctx context.Context, opts Options) (*Bucket, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3: bucket name is required")
	}

	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := opts.PublicURL
	if publicURL == "" && opts.Endpoint != "" {
		publicURL = storage.JoinURL(opts.Endpoint, opts.Bucket)
	}
	return NewWithAPI(client, opts.Bucket, publicURL), nil
}

// NewWithAPI creates a bucket over an existing client.
func NewWithAPI(api API, bucket, publicURL string) *Bucket {
	return &Bucket{api: api, bucket: bucket, publicURL: publicURL}
}

func (b *Bucket) Upload(ctx context.Context, key, contentType string, content io.Reader) (*storage.Object, error) {
	cleaned, ok := storage.CleanKey(key)
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, apperr.ErrInvalidInput)
	}

	// PutObject needs a seekable body of known length.
	body, size, err := seekable(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	input := &awss3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(cleaned),
		Body:          body,
		ContentLength: aws.Int64(size),
		IfNoneMatch:   aws.String("*"),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := b.api.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return nil, fmt.Errorf("object %s: %w", cleaned, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("failed to put object: %w", err)
	}

	return &storage.Object{
		Key:         cleaned,
		Size:        size,
		ContentType: contentType,
		URL:         b.PublicURL(cleaned),
	}, nil
}

func (b *Bucket) PublicURL(key string) string {
	return storage.JoinURL(b.publicURL, key)
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	cleaned, ok := storage.CleanKey(key)
	if !ok {
		return fmt.Errorf("key %q: %w", key, apperr.ErrInvalidInput)
	}

	// DeleteObject succeeds for missing keys, so check first.
	_, err := b.api.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(cleaned),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return fmt.Errorf("object %s: %w", cleaned, apperr.ErrNotFound)
		}
		return fmt.Errorf("failed to stat object: %w", err)
	}

	if _, err := b.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(cleaned),
	}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func seekable(r io.Reader) (io.ReadSeeker, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		start, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return rs, end - start, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
