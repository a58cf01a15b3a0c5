package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// S3API is the subset of the S3 client used by the S3 store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config selects the bucket and client settings for the S3 store.
type S3Config struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint overrides the service endpoint for S3-compatible storage; path
	// style addressing is used when set.
	Endpoint string
}

// S3 stores blobs as objects in an S3 bucket, using ETags as versions and
// If-Match / If-None-Match for conditional writes.
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 builds an S3 store from the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(cfg.Region); region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3WithClient(client, bucket, cfg.Prefix), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client S3API, bucket, prefix string) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}
}

func (s *S3) objectKey(key string) (string, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return key, nil
	}
	return path.Join(s.prefix, key), nil
}

func (s *S3) Get(ctx context.Context, key string) (Object, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return Object{}, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isS3NotFound(err) {
			return Object{}, ErrNotFound
		}
		return Object{}, fmt.Errorf("get s3 object %s: %w", objectKey, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Object{}, fmt.Errorf("read s3 object %s: %w", objectKey, err)
	}
	return Object{Data: data, Version: aws.ToString(out.ETag)}, nil
}

func (s *S3) Put(ctx context.Context, key string, data []byte, opts PutOptions) (string, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return "", err
	}
	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(objectKey),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-store"),
	}
	switch {
	case opts.IfAbsent:
		input.IfNoneMatch = aws.String("*")
	case opts.IfVersion != "":
		input.IfMatch = aws.String(opts.IfVersion)
	}
	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		if isS3PreconditionFailed(err) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("put s3 object %s: %w", objectKey, err)
	}
	return aws.ToString(out.ETag), nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}); err != nil && !isS3NotFound(err) {
		return fmt.Errorf("delete s3 object %s: %w", objectKey, err)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	return httpStatus(err) == http.StatusNotFound
}

// isS3PreconditionFailed covers both a lost If-Match race (412) and a
// concurrent conditional write in flight (409 ConditionalRequestConflict).
func isS3PreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	status := httpStatus(err)
	return status == http.StatusPreconditionFailed || status == http.StatusConflict
}

func httpStatus(err error) int {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}

var _ Store = (*S3)(nil)
