package storage

import (
	"context"
	"errors"
	"io"

	"hotelparadise/config"
	"hotelparadise/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store keeps photos in an S3 compatible bucket (AWS, R2, MinIO).
type S3Store struct {
	client       *s3.Client
	bucket       string
	publicDomain string
	log          logger.Logger
}

func NewS3Store(ctx context.Context, config config.Config) (*S3Store, error) {
	log := logger.New("s3Store")

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.S3AccessKeyID, config.S3SecretAccessKey, ""),
		),
		awsconfig.WithRegion(config.S3Region),
	)
	if err != nil {
		return nil, log.Function("NewS3Store").Err("failed to load s3 config", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if config.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(config.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:       client,
		bucket:       config.S3Bucket,
		publicDomain: config.S3PublicDomain,
		log:          log,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, folder string, uploads []Upload) ([]string, error) {
	log := s.log.TraceFromContext(ctx).Function("Save")

	if err := ValidateFolder(folder); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		key := objectName(folder, upload.Filename)

		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        upload.Body,
			ContentType: aws.String(contentTypeFor(key, upload.ContentType)),
		})
		if err != nil {
			_ = s.Delete(ctx, keys)
			return nil, log.Err("failed to upload photo", err, "key", key)
		}
		keys = append(keys, key)
	}

	log.Info("Photos uploaded", "folder", folder, "count", len(keys))
	return keys, nil
}

func (s *S3Store) Delete(ctx context.Context, keys []string) error {
	log := s.log.TraceFromContext(ctx).Function("Delete")

	var firstErr error
	for _, key := range keys {
		if key == "" {
			continue
		}
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil && firstErr == nil {
			firstErr = log.Err("failed to delete photo", err, "key", key)
		}
	}
	return firstErr
}

// DeleteFolderIfEmpty is a no-op: buckets have no directories to remove.
func (s *S3Store) DeleteFolderIfEmpty(ctx context.Context, folder string) error {
	return ValidateFolder(folder)
}

func (s *S3Store) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := ValidateKey(key); err != nil {
		return nil, "", err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *s3types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, "", types.NewNotFoundError("photo not found")
		}
		return nil, "", s.log.Function("Open").Err("failed to fetch photo", err, "key", key)
	}

	return out.Body, contentTypeFor(key, aws.ToString(out.ContentType)), nil
}

func (s *S3Store) URL(key string) string {
	if s.publicDomain == "" {
		return key
	}
	return joinURL(s.publicDomain, key)
}
