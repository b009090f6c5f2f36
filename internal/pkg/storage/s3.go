package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"

	"github.com/inkpress/inkpress/internal/pkg/env"
)

// S3BlobStore implements BlobStore against an S3-compatible endpoint.
type S3BlobStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3BlobStore creates the blob store from the validated startup config.
func NewS3BlobStore(cfg *env.Config) (*S3BlobStore, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.StorageRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
			// MinIO and friends want path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	store := &S3BlobStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.StorageBucket,
	}

	if err := store.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to blob storage: %w", err)
	}

	log.Infof("[BlobStore] Successfully initialized S3 client for bucket: %s", cfg.StorageBucket)
	return store, nil
}

// testConnection checks that the bucket is reachable before serving traffic.
func (s *S3BlobStore) testConnection() error {
	_, err := s.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", s.bucket, err)
	}
	return nil
}

// GenerateUploadURL issues a presigned PUT URL for a new blob.
func (s *S3BlobStore) GenerateUploadURL(ctx context.Context, key, contentType string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(UploadURLTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}
	return req.URL, nil
}

// ResolveURL issues a presigned GET URL for an existing blob.
func (s *S3BlobStore) ResolveURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(resolveURLTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign read for %s: %w", key, err)
	}
	return req.URL, nil
}

// Delete removes a blob from the bucket.
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}

	log.Infof("[BlobStore] Successfully deleted: s3://%s/%s", s.bucket, key)
	return nil
}

// Exists checks whether a blob is present in the bucket.
func (s *S3BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check blob existence: %w", err)
	}
	return true, nil
}
