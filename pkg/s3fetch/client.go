// Package s3fetch downloads container files from S3 into memory.
package s3fetch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrObjectTooLarge indicates an object exceeds Config.MaxObjectSize.
var ErrObjectTooLarge = errors.New("object too large")

// Config configures S3 downloads.
type Config struct {
	// Concurrency is the number of concurrent range requests per object.
	// Default: NumCPU clamped to [2, 8].
	Concurrency int
	// PartSize is the size of each range request in bytes. Default: 8MB.
	PartSize int64
	// MaxObjectSize caps how much is read into memory. Default: 512MB.
	MaxObjectSize int64
	// UsePathStyle addresses buckets as endpoint/bucket/key, as
	// S3-compatible stores such as MinIO expect.
	UsePathStyle bool
}

// DefaultConfig returns defaults sized for container files, which are
// typically a few megabytes.
func DefaultConfig() Config {
	concurrency := runtime.NumCPU()
	if concurrency < 2 {
		concurrency = 2
	}
	if concurrency > 8 {
		concurrency = 8
	}
	return Config{
		Concurrency:   concurrency,
		PartSize:      8 * 1024 * 1024,
		MaxObjectSize: 512 * 1024 * 1024,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.PartSize <= 0 {
		c.PartSize = d.PartSize
	}
	if c.MaxObjectSize <= 0 {
		c.MaxObjectSize = d.MaxObjectSize
	}
	return c
}

// DownloadResult describes a completed download.
type DownloadResult struct {
	BytesDownloaded int64
	Duration        time.Duration
}

// Client fetches whole objects into memory.
type Client struct {
	s3Client   *s3.Client
	downloader *manager.Downloader
	cfg        Config
}

// NewClient creates a client using the default AWS configuration chain.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewClientWithConfig(awsCfg, cfg), nil
}

// NewClientWithConfig creates a client from an explicit AWS config.
func NewClientWithConfig(awsCfg aws.Config, cfg Config) *Client {
	cfg = cfg.withDefaults()
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Client{
		s3Client: s3Client,
		downloader: manager.NewDownloader(s3Client, func(d *manager.Downloader) {
			d.Concurrency = cfg.Concurrency
			d.PartSize = cfg.PartSize
		}),
		cfg: cfg,
	}
}

// Config returns the effective client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// FetchObject downloads s3://bucket/key into a new byte slice.
func (c *Client) FetchObject(ctx context.Context, bucket, key string) ([]byte, *DownloadResult, error) {
	start := time.Now()

	head, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("head object s3://%s/%s: %w", bucket, key, err)
	}
	size := aws.ToInt64(head.ContentLength)
	if size > c.cfg.MaxObjectSize {
		return nil, nil, fmt.Errorf("%w: s3://%s/%s is %d bytes, limit %d",
			ErrObjectTooLarge, bucket, key, size, c.cfg.MaxObjectSize)
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))
	n, err := c.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
	}

	return buf.Bytes(), &DownloadResult{
		BytesDownloaded: n,
		Duration:        time.Since(start),
	}, nil
}
