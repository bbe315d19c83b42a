package objectclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	cfg "github.com/markdave123-py/bharathi/internal/config"
	"github.com/markdave123-py/bharathi/internal/core"
)

// ErrNotConfigured is returned by NewS3Client when no storage credentials are set.
var ErrNotConfigured = errors.New("object storage not configured")

// getObjectAPI is the slice of the S3 client used here.
type getObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Client struct {
	client  getObjectAPI
	timeout time.Duration
	maxSize int64
}

var _ core.ObjectClient = (*S3Client)(nil)

// NewS3Client builds a client for AWS S3 or, when AWS_ENDPOINT_URL is set, an
// S3-compatible store such as Cloudflare R2.
func NewS3Client(ctx context.Context, cfg *cfg.Config, log *zap.Logger) (*S3Client, error) {
	if cfg.AwsAccessKey == "" || cfg.AwsSecretKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.AwsRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}

	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(cfg.AwsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AwsEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AwsEndpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})
	log.Info("object storage client ready",
		zap.String("region", cfg.AwsRegion),
		zap.String("endpoint", cfg.AwsEndpoint))

	return &S3Client{client: client, timeout: cfg.FetchTimeout, maxSize: cfg.MaxDocumentBytes}, nil
}

// GetFile downloads an object fully into memory.
func (c *S3Client) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctxGet, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.client.GetObject(ctxGet, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.maxSize > 0 {
		body = io.LimitReader(resp.Body, c.maxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if c.maxSize > 0 && int64(len(data)) > c.maxSize {
		return nil, fmt.Errorf("object s3://%s/%s exceeds %d bytes", bucket, key, c.maxSize)
	}

	return data, nil
}
