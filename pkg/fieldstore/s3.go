package fieldstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store stores each value as an object at <prefix><scope>/<key>.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1", Credentials: creds})
//	store := fieldstore.NewS3Store(client, "my-bucket", fieldstore.WithS3Prefix("folio/"))
type S3Store struct {
	client S3API
	bucket string
	prefix string
	closed atomic.Bool
}

// S3StoreOption configures S3Store behavior.
type S3StoreOption func(*S3Store)

// WithS3Prefix sets the object key prefix.
// Default: "fields/".
func WithS3Prefix(prefix string) S3StoreOption {
	return func(s *S3Store) {
		s.prefix = prefix
	}
}

// NewS3Store creates a new S3-backed field store.
func NewS3Store(client S3API, bucket string, opts ...S3StoreOption) *S3Store {
	s := &S3Store{
		client: client,
		bucket: bucket,
		prefix: "fields/",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *S3Store) scopePrefix(scope string) string {
	return s.prefix + scope + "/"
}

func (s *S3Store) objectKey(scope, key string) string {
	return s.scopePrefix(scope) + key
}

// Get returns the value stored under key in scope.
func (s *S3Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, ErrStoreClosed
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(scope, key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("fieldstore: s3 get %s/%s: %w", scope, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false, fmt.Errorf("fieldstore: s3 read %s/%s: %w", scope, key, err)
	}
	return string(data), true, nil
}

// Set stores value under key in scope.
func (s *S3Store) Set(ctx context.Context, scope, key, value string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(scope, key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("fieldstore: s3 put %s/%s: %w", scope, key, err)
	}
	return nil
}

// Delete removes keys from scope with one DeleteObjects request.
func (s *S3Store) Delete(ctx context.Context, scope string, keys ...string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(s.objectKey(scope, k))})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("fieldstore: s3 delete %s: %w", scope, err)
	}
	if out != nil && len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("fieldstore: s3 delete %s: %s: %s",
			scope, aws.ToString(first.Key), aws.ToString(first.Message))
	}
	return nil
}

// List returns every pair stored in scope.
func (s *S3Store) List(ctx context.Context, scope string) (map[string]string, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	prefix := s.scopePrefix(scope)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	out := make(map[string]string)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("fieldstore: s3 list %s: %w", scope, err)
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			v, ok, err := s.Get(ctx, scope, key)
			if err != nil {
				return nil, err
			}
			if ok {
				out[key] = v
			}
		}
	}
	return out, nil
}

// Close marks the store as closed.
func (s *S3Store) Close() error {
	s.closed.Store(true)
	return nil
}
