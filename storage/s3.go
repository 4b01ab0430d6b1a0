package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config options for the remote object storage backend. Endpoint supports
// S3-compatible services (MinIO, most object storage vendors).
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	UsePathStyle    bool
}

// S3Backend stores assets in an S3-compatible bucket and returns a public
// object URL.
type S3Backend struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3 creates the remote backend.
func NewS3(cfg S3Config) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &S3Backend{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
	}, nil
}

func publicBaseURL(cfg S3Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Store uploads the asset under <folder>/<uuid>-<sanitized-name> and returns
// the public object URL. The uuid prefix keeps concurrent submissions with
// identical file names distinct.
func (b *S3Backend) Store(ctx context.Context, folder string, src Source) (Object, error) {
	in, err := src.Open()
	if err != nil {
		return Object{}, fmt.Errorf("open upload %s: %w", src.Name, err)
	}
	defer in.Close()

	key := fmt.Sprintf("%s/%s-%s", folder, uuid.NewString(), SanitizeFilename(src.Name))

	uploader := manager.NewUploader(b.client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   in,
	}); err != nil {
		return Object{}, fmt.Errorf("upload object %s: %w", key, err)
	}

	return Object{URL: b.baseURL + "/" + key, Backend: BackendRemote}, nil
}
