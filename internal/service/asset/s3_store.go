package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/config"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the subset of *s3.Client used by S3FileStore.
type s3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3FileStore implements FileStore on an S3-compatible bucket.
// Works with AWS S3, MinIO and other S3-compatible services.
// Directories map to key prefixes.
type S3FileStore struct {
	client s3API
	bucket string
	logger *slog.Logger
}

var _ FileStore = (*S3FileStore)(nil)

// NewS3FileStore creates an S3FileStore from configuration and makes sure the
// bucket exists.
func NewS3FileStore(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*S3FileStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	// Add static credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	store := newS3FileStore(client, cfg.Bucket, logger)
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}
	return store, nil
}

func newS3FileStore(client s3API, bucket string, logger *slog.Logger) *S3FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3FileStore{
		client: client,
		bucket: bucket,
		logger: logger.With(
			slog.String("component", "s3_file_store"),
			slog.String("bucket", bucket),
		),
	}
}

// ensureBucket checks if bucket exists, creates it if not
func (s *S3FileStore) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	s.logger.Info("created S3 bucket")
	return nil
}

func objectKey(dir, name string) string {
	return path.Join(dir, filepath.Base(name))
}

// EnsureDirectory implements FileStore. Prefixes need no creation.
func (s *S3FileStore) EnsureDirectory(context.Context, string) error {
	return nil
}

// Move implements FileStore by uploading srcPath and removing the local file.
func (s *S3FileStore) Move(ctx context.Context, srcPath, dir, name string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer func() { _ = f.Close() }()

	key := objectKey(dir, name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	if err := os.Remove(srcPath); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to remove uploaded temp file",
			slog.String("path", srcPath),
			slog.String("error", err.Error()))
	}
	return nil
}

// Delete implements FileStore.
func (s *S3FileStore) Delete(ctx context.Context, dir, name string) error {
	key := objectKey(dir, name)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}

// Exists implements FileStore.
func (s *S3FileStore) Exists(ctx context.Context, dir, name string) (bool, error) {
	key := objectKey(dir, name)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isS3NotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s in S3: %w", key, err)
}

// Open implements FileStore.
func (s *S3FileStore) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	key := objectKey(dir, name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get %s from S3: %w", key, err)
	}
	return out.Body, nil
}

func isS3NotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
