package storage

import (
	"context"
	"fmt"
	"strings"

	"servicedesk-backend/internal/config"
	"servicedesk-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store uploads to an S3-compatible bucket (AWS S3, Cloudflare R2).
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("storage.s3.bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3.Region)}
	if cfg.S3.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.S3.Bucket,
		publicURL: strings.TrimRight(cfg.S3.PublicURL, "/"),
	}, nil
}

func (s *S3Store) Store(ctx context.Context, u *Upload) (*models.StoredFile, error) {
	mime, err := PrepareImage(u, 0)
	if err != nil {
		return nil, err
	}

	key := objectKey(u.Prefix, u.Filename)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        u.Body,
		ContentType: aws.String(mime),
	}
	if u.Size > 0 {
		input.ContentLength = aws.Int64(u.Size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	return &models.StoredFile{URL: s.publicURL + "/" + key, MimeType: mime}, nil
}
